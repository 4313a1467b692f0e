package config

import (
	"slices"
	"strconv"
	"strings"
)

// Settings is one snapshot of every configuration value.
type Settings struct {
	Version string `yaml:"version"`

	LicenseKey        string `yaml:"license_key"`
	LogPath           string `yaml:"logpath"`
	LogQueries        bool   `yaml:"log_queries"`
	GettingStartedURL string `yaml:"getting_started_url"`
	Environment       string `yaml:"NODE_ENV"`

	StripeAPIKey    string `yaml:"stripe_api_key"`
	StripeAPISecret string `yaml:"stripe_api_secret"`

	SupportsWatch bool `yaml:"supports_watch"`

	AutoCreateUsers                bool     `yaml:"auto_create_users"`
	AutoCreateDomains              []string `yaml:"auto_create_domains"`
	AllowUserRegistration          bool     `yaml:"allow_user_registration"`
	AllowPersonalNodered           bool     `yaml:"allow_personal_nodered"`
	AutoCreatePersonalNoderedGroup bool     `yaml:"auto_create_personal_nodered_group"`

	TLSCert       string `yaml:"tls_crt"`
	TLSKey        string `yaml:"tls_key"`
	TLSCA         string `yaml:"tls_ca"`
	TLSPassphrase string `yaml:"tls_passphrase"`

	APICredentialCacheSeconds int `yaml:"api_credential_cache_seconds"`
	ClientHeartbeatTimeout    int `yaml:"client_heartbeat_timeout"`

	ExpectedMaxRoles         int  `yaml:"expected_max_roles"`
	UpdateACLBasedOnGroups   bool `yaml:"update_acl_based_on_groups"`
	MultiTenant              bool `yaml:"multi_tenant"`
	APIBypassPermCheck       bool `yaml:"api_bypass_perm_check"`
	WebsocketPackageSize     int  `yaml:"websocket_package_size"`
	WebsocketMaxPackageCount int  `yaml:"websocket_max_package_count"`

	// Protocol, Domain and Port feed BaseURL.
	Protocol string `yaml:"protocol"`
	Port     int    `yaml:"port"`
	Domain   string `yaml:"domain"`

	AMQPReplyExpiration     int    `yaml:"amqp_reply_expiration"`
	AMQPForceQueuePrefix    bool   `yaml:"amqp_force_queue_prefix"`
	AMQPForceExchangePrefix bool   `yaml:"amqp_force_exchange_prefix"`
	AMQPURL                 string `yaml:"amqp_url"`
	AMQPCheckForConsumer    bool   `yaml:"amqp_check_for_consumer"`
	AMQPDefaultExpiration   int    `yaml:"amqp_default_expiration"`
	AMQPRequeueTime         int    `yaml:"amqp_requeue_time"`
	AMQPDeadLetterExchange  string `yaml:"amqp_dlx"`

	MongoDBURL string `yaml:"mongodb_url"`
	MongoDBDB  string `yaml:"mongodb_db"`

	SkipHistoryCollections string `yaml:"skip_history_collections"`
	AllowSkipHistory       bool   `yaml:"allow_skiphistory"`

	SAMLIssuer                   string `yaml:"saml_issuer"`
	AESSecret                    string `yaml:"aes_secret"`
	SigningCert                  string `yaml:"signing_crt"`
	SigningKey                   string `yaml:"singing_key"`
	ShortTokenExpiresIn          string `yaml:"shorttoken_expires_in"`
	LongTokenExpiresIn           string `yaml:"longtoken_expires_in"`
	DownloadTokenExpiresIn       string `yaml:"downloadtoken_expires_in"`
	PersonalNoderedTokenExpireIn string `yaml:"personalnoderedtoken_expires_in"`

	NoderedImage                string `yaml:"nodered_image"`
	SAMLFederationMetadata      string `yaml:"saml_federation_metadata"`
	APIWebSocketURL             string `yaml:"api_ws_url"`
	Namespace                   string `yaml:"namespace"`
	NoderedDomainSchema         string `yaml:"nodered_domain_schema"`
	NoderedInitialLivenessDelay int    `yaml:"nodered_initial_liveness_delay"`
}

// BaseURL is the externally reachable root of the service. A configured TLS
// certificate and key force https regardless of Protocol. Ports 80 and 443
// are left implicit. The result always ends with a slash.
func (s Settings) BaseURL() string {
	scheme := s.Protocol
	if s.TLSCert != "" && s.TLSKey != "" {
		scheme = "https"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(s.Domain)
	if s.Port != 80 && s.Port != 443 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Port))
	}
	b.WriteByte('/')
	return b.String()
}

// PublicSettings is the subset of settings safe to hand to browsers and
// personal node-red instances.
type PublicSettings struct {
	Version               string `json:"version" yaml:"version"`
	BaseURL               string `json:"baseurl" yaml:"baseurl"`
	Domain                string `json:"domain" yaml:"domain"`
	Protocol              string `json:"protocol" yaml:"protocol"`
	APIWebSocketURL       string `json:"api_ws_url" yaml:"api_ws_url"`
	Namespace             string `json:"namespace" yaml:"namespace"`
	NoderedDomainSchema   string `json:"nodered_domain_schema" yaml:"nodered_domain_schema"`
	GettingStartedURL     string `json:"getting_started_url" yaml:"getting_started_url"`
	AllowUserRegistration bool   `json:"allow_user_registration" yaml:"allow_user_registration"`
	AllowPersonalNodered  bool   `json:"allow_personal_nodered" yaml:"allow_personal_nodered"`
	MultiTenant           bool   `json:"multi_tenant" yaml:"multi_tenant"`
}

// Public returns the browser-facing view of s.
func (s Settings) Public() PublicSettings {
	return PublicSettings{
		Version:               s.Version,
		BaseURL:               s.BaseURL(),
		Domain:                s.Domain,
		Protocol:              s.Protocol,
		APIWebSocketURL:       s.APIWebSocketURL,
		Namespace:             s.Namespace,
		NoderedDomainSchema:   s.NoderedDomainSchema,
		GettingStartedURL:     s.GettingStartedURL,
		AllowUserRegistration: s.AllowUserRegistration,
		AllowPersonalNodered:  s.AllowPersonalNodered,
		MultiTenant:           s.MultiTenant,
	}
}

func (s Settings) clone() Settings {
	out := s
	out.AutoCreateDomains = slices.Clone(s.AutoCreateDomains)
	return out
}
