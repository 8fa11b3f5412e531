package locale

var enUS = map[string]string{
	"page.login.title":          "Sign in",
	"page.login.with":           "Log in with",
	"page.login.or":             "or",
	"page.login.email":          "Enter your email",
	"page.login.submit":         "Continue",
	"page.login.github":         "GitHub",
	"error.email_required":      "Please enter your email address.",
	"page.account.title":        "Account",
	"page.account.signed_in_as": "Signed in as %s",
	"page.account.email":        "Email",
	"page.account.name":         "Name",
	"page.account.id":           "User ID",
	"menu.logout":               "Log out",
}

var frFR = map[string]string{
	"page.login.title":          "Connexion",
	"page.login.with":           "Se connecter avec",
	"page.login.or":             "ou",
	"page.login.email":          "Saisissez votre e-mail",
	"page.login.submit":         "Continuer",
	"page.login.github":         "GitHub",
	"error.email_required":      "Veuillez saisir votre adresse e-mail.",
	"page.account.title":        "Compte",
	"page.account.signed_in_as": "Connecté en tant que %s",
	"page.account.email":        "E-mail",
	"page.account.name":         "Nom",
	"page.account.id":           "Identifiant",
	"menu.logout":               "Se déconnecter",
}

var deDE = map[string]string{
	"page.login.title":          "Anmelden",
	"page.login.with":           "Anmelden mit",
	"page.login.or":             "oder",
	"page.login.email":          "E-Mail-Adresse eingeben",
	"page.login.submit":         "Weiter",
	"page.login.github":         "GitHub",
	"error.email_required":      "Bitte geben Sie Ihre E-Mail-Adresse ein.",
	"page.account.title":        "Konto",
	"page.account.signed_in_as": "Angemeldet als %s",
	"page.account.email":        "E-Mail",
	"page.account.name":         "Name",
	"page.account.id":           "Benutzer-ID",
	"menu.logout":               "Abmelden",
}
