package service

import "fmt"

func verificationEmailTemplate(name, verifyURL, appName string) (string, string) {
	greeting := "Hi,"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s,", name)
	}

	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`%s

Thanks for signing up! Please confirm your email address by clicking this link:
%s

This link expires in 1 hour and can only be used once. If it expires, you can request a new one from the app.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, greeting, verifyURL, appName)

	return subject, body
}
