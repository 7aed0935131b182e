package relay

const (
	// EnvOpenAIAPIKey names the completion API key setting.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvDingTalkWebhook names the robot webhook URL setting.
	EnvDingTalkWebhook = "DINGTALK_WEBHOOK"
	// EnvDingTalkSecret names the robot signing secret setting.
	EnvDingTalkSecret = "DINGTALK_SECRET"
)

// Credentials holds the three secrets a relay needs. The JSON layout is the one stored in SSM.
type Credentials struct {
	OpenAIAPIKey    string `json:"openai_api_key"`
	DingTalkWebhook string `json:"dingtalk_webhook"`
	DingTalkSecret  string `json:"dingtalk_secret"`
}

// Missing returns the names of the unset credentials, in a stable order.
func (c *Credentials) Missing() []string {
	if c == nil {
		return []string{EnvOpenAIAPIKey, EnvDingTalkWebhook, EnvDingTalkSecret}
	}
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if c.DingTalkWebhook == "" {
		missing = append(missing, EnvDingTalkWebhook)
	}
	if c.DingTalkSecret == "" {
		missing = append(missing, EnvDingTalkSecret)
	}
	return missing
}

// Complete reports whether every credential is set.
func (c *Credentials) Complete() bool {
	return len(c.Missing()) == 0
}

// Secrets returns the values that must never leave the process.
func (c *Credentials) Secrets() []string {
	if c == nil {
		return nil
	}
	return []string{c.OpenAIAPIKey, c.DingTalkWebhook, c.DingTalkSecret}
}
