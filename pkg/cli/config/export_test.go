package config

func NewAuthForTest(clientID, clientSecret, baseURL, allowedEmails, noAuthSub string) *Auth {
	return &Auth{
		clientID:      clientID,
		clientSecret:  clientSecret,
		baseURL:       baseURL,
		allowedEmails: allowedEmails,
		noAuthSub:     noAuthSub,
		noAuthEmail:   "dev@localhost",
		noAuthName:    "Developer",
	}
}

func NewRepositoryForTest(backend, sqlitePath string, autoMigrate bool) *Repository {
	return &Repository{
		backend:     backend,
		sqlitePath:  sqlitePath,
		autoMigrate: autoMigrate,
	}
}

func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewPromptsForTest(path string) *Prompts {
	return &Prompts{path: path}
}
