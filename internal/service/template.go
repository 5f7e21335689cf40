package service

import "fmt"

func thankYouTemplate(beneficiaryName string) string {
	return fmt.Sprintf(`
  <div style="font-family: Helvetica,Arial,sans-serif;min-width:1000px;overflow:auto;line-height:2">
    <div style="margin:50px auto;width:70%%;padding:20px 0">
      <div style="border-bottom:1px solid #eee">
        <a href="" style="font-size:1.4em;color: #00466a;text-decoration:none;font-weight:600">Fastmoni, Inc.</a>
      </div>
      <p style="font-size:1.1em">Hi There,</p>
      <p>%s says thank you for your continues support</p>
      <p style="font-size:0.9em;">Regards,<br />Fastmoni Inc.</p>
      <hr style="border:none;border-top:1px solid #eee" />
      <div style="float:right;padding:8px 0;color:#aaa;font-size:0.8em;line-height:1;font-weight:300">
        <p>Fastmoni, Inc.</p>
        <p>Lagos</p>
        <p>Nigeria</p>
      </div>
    </div>
</div>
`, beneficiaryName)
}
