package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	// Activation
	message.SetString(lang, "login.active", "Sua nova conta foi confirmada e você será redirecionado para a página inicial.")
	message.SetString(lang, "login.activate_email", "<p>Quase pronto! Enviamos um email de ativação para <b>%s</b>. Siga as instruções do email para ativar sua conta.</p>")
	message.SetString(lang, "login.wait_approval", "Obrigado por se cadastrar. Avisaremos quando sua conta for aprovada.")

	// Emails
	message.SetString(lang, "email.signup.subject", "Confirme sua nova conta")
	message.SetString(lang, "email.signup.body", "Bem-vindo!\n\nClique no link a seguir para confirmar e ativar sua nova conta:\n%s\n\nSe o link acima não for clicável, copie e cole no navegador.")
	message.SetString(lang, "email.welcome.subject", "Boas-vindas")
	message.SetString(lang, "email.welcome.body", "Olá %s,\n\nObrigado por se juntar a nós. Sua conta está ativa e pronta para uso.")
}
