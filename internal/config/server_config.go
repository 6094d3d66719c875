package config

// ServerConfig defines the HTTP API listener and where sessions carry
// their timezone and locale
type ServerConfig struct {
	Addr          string `json:"addr,omitempty" yaml:"addr,omitempty" validate:"required"`
	SessionHeader string `json:"session_header,omitempty" yaml:"session_header,omitempty"`
	SessionCookie string `json:"session_cookie,omitempty" yaml:"session_cookie,omitempty"`
	LocaleHeader  string `json:"locale_header,omitempty" yaml:"locale_header,omitempty"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          DefaultServerAddr,
		SessionHeader: DefaultSessionHeader,
		SessionCookie: DefaultSessionCookie,
		LocaleHeader:  DefaultLocaleHeader,
	}
}
