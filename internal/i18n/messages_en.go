package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Activation
	message.SetString(lang, "login.active", "Your new account is confirmed and you will be redirected to the home page.")
	message.SetString(lang, "login.activate_email", "<p>You're almost done! We sent an activation mail to <b>%s</b>. Please follow the instructions in the email to activate your account.</p>")
	message.SetString(lang, "login.wait_approval", "Thanks for signing up. We will notify you when your account has been approved.")

	// Emails
	message.SetString(lang, "email.signup.subject", "Confirm your new account")
	message.SetString(lang, "email.signup.body", "Welcome!\n\nClick the following link to confirm and activate your new account:\n%s\n\nIf the above link is not clickable, try copying and pasting it into the address bar of your web browser.")
	message.SetString(lang, "email.welcome.subject", "Welcome aboard")
	message.SetString(lang, "email.welcome.body", "Hi %s,\n\nThanks for joining. Your account is active and ready to use.")
}
