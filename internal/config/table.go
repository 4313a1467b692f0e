package config

// Kind is the declared type of a setting.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindInteger
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindStringList:
		return "string-list"
	default:
		return "string"
	}
}

// Setting describes one environment variable the store reads.
type Setting struct {
	Name    string
	Kind    Kind
	Default string
	// Secret settings are never printed or served.
	Secret bool
}

type field struct {
	Setting
	target func(*Settings) any
}

func (f field) apply(s *Settings) {
	switch p := f.target(s).(type) {
	case *string:
		*p = GetString(f.Name, f.Default)
	case *bool:
		*p = GetBoolean(f.Name, f.Default)
	case *int:
		*p = GetInteger(f.Name, f.Default)
	case *[]string:
		*p = GetStringList(f.Name, f.Default)
	}
}

func (f field) value(s *Settings) any {
	switch p := f.target(s).(type) {
	case *string:
		return *p
	case *bool:
		return *p
	case *int:
		return *p
	case *[]string:
		return *p
	}
	return nil
}

func str(name, def string, target func(*Settings) *string) field {
	return field{Setting{Name: name, Kind: KindString, Default: def}, func(s *Settings) any { return target(s) }}
}

func secret(name string, target func(*Settings) *string) field {
	f := str(name, "", target)
	f.Secret = true
	return f
}

func boolean(name, def string, target func(*Settings) *bool) field {
	return field{Setting{Name: name, Kind: KindBoolean, Default: def}, func(s *Settings) any { return target(s) }}
}

func integer(name, def string, target func(*Settings) *int) field {
	return field{Setting{Name: name, Kind: KindInteger, Default: def}, func(s *Settings) any { return target(s) }}
}

func list(name, def string, target func(*Settings) *[]string) field {
	return field{Setting{Name: name, Kind: KindStringList, Default: def}, func(s *Settings) any { return target(s) }}
}

// fields lists every setting in load order. logpath defaults to baseDir.
func fields(baseDir string) []field {
	return []field{
		secret("license_key", func(s *Settings) *string { return &s.LicenseKey }),
		str("logpath", baseDir, func(s *Settings) *string { return &s.LogPath }),
		boolean("log_queries", "false", func(s *Settings) *bool { return &s.LogQueries }),
		str("getting_started_url", "", func(s *Settings) *string { return &s.GettingStartedURL }),

		str("NODE_ENV", "development", func(s *Settings) *string { return &s.Environment }),

		secret("stripe_api_key", func(s *Settings) *string { return &s.StripeAPIKey }),
		secret("stripe_api_secret", func(s *Settings) *string { return &s.StripeAPISecret }),

		boolean("supports_watch", "false", func(s *Settings) *bool { return &s.SupportsWatch }),

		boolean("auto_create_users", "false", func(s *Settings) *bool { return &s.AutoCreateUsers }),
		list("auto_create_domains", "", func(s *Settings) *[]string { return &s.AutoCreateDomains }),
		boolean("allow_user_registration", "false", func(s *Settings) *bool { return &s.AllowUserRegistration }),
		boolean("allow_personal_nodered", "false", func(s *Settings) *bool { return &s.AllowPersonalNodered }),
		boolean("auto_create_personal_nodered_group", "false", func(s *Settings) *bool { return &s.AutoCreatePersonalNoderedGroup }),

		str("tls_crt", "", func(s *Settings) *string { return &s.TLSCert }),
		secret("tls_key", func(s *Settings) *string { return &s.TLSKey }),
		str("tls_ca", "", func(s *Settings) *string { return &s.TLSCA }),
		secret("tls_passphrase", func(s *Settings) *string { return &s.TLSPassphrase }),

		integer("api_credential_cache_seconds", "60000", func(s *Settings) *int { return &s.APICredentialCacheSeconds }),
		integer("client_heartbeat_timeout", "60", func(s *Settings) *int { return &s.ClientHeartbeatTimeout }),

		integer("expected_max_roles", "4000", func(s *Settings) *int { return &s.ExpectedMaxRoles }),
		boolean("update_acl_based_on_groups", "false", func(s *Settings) *bool { return &s.UpdateACLBasedOnGroups }),
		boolean("multi_tenant", "false", func(s *Settings) *bool { return &s.MultiTenant }),
		boolean("api_bypass_perm_check", "false", func(s *Settings) *bool { return &s.APIBypassPermCheck }),
		integer("websocket_package_size", "4096", func(s *Settings) *int { return &s.WebsocketPackageSize }),
		integer("websocket_max_package_count", "1024", func(s *Settings) *int { return &s.WebsocketMaxPackageCount }),
		str("protocol", "http", func(s *Settings) *string { return &s.Protocol }),
		integer("port", "3000", func(s *Settings) *int { return &s.Port }),
		str("domain", "localhost", func(s *Settings) *string { return &s.Domain }),

		integer("amqp_reply_expiration", "60000", func(s *Settings) *int { return &s.AMQPReplyExpiration }),
		boolean("amqp_force_queue_prefix", "true", func(s *Settings) *bool { return &s.AMQPForceQueuePrefix }),
		boolean("amqp_force_exchange_prefix", "true", func(s *Settings) *bool { return &s.AMQPForceExchangePrefix }),
		sensitive(str("amqp_url", "amqp://localhost", func(s *Settings) *string { return &s.AMQPURL })),
		boolean("amqp_check_for_consumer", "true", func(s *Settings) *bool { return &s.AMQPCheckForConsumer }),
		integer("amqp_default_expiration", "60000", func(s *Settings) *int { return &s.AMQPDefaultExpiration }),
		integer("amqp_requeue_time", "1000", func(s *Settings) *int { return &s.AMQPRequeueTime }),
		str("amqp_dlx", "openflow-dlx", func(s *Settings) *string { return &s.AMQPDeadLetterExchange }),

		sensitive(str("mongodb_url", "mongodb://localhost:27017", func(s *Settings) *string { return &s.MongoDBURL })),
		str("mongodb_db", "openflow", func(s *Settings) *string { return &s.MongoDBDB }),

		str("skip_history_collections", "", func(s *Settings) *string { return &s.SkipHistoryCollections }),
		boolean("allow_skiphistory", "true", func(s *Settings) *bool { return &s.AllowSkipHistory }),

		str("saml_issuer", "the-issuer", func(s *Settings) *string { return &s.SAMLIssuer }),
		secret("aes_secret", func(s *Settings) *string { return &s.AESSecret }),
		str("signing_crt", "", func(s *Settings) *string { return &s.SigningCert }),
		secret("singing_key", func(s *Settings) *string { return &s.SigningKey }),
		str("shorttoken_expires_in", "5m", func(s *Settings) *string { return &s.ShortTokenExpiresIn }),
		str("longtoken_expires_in", "365d", func(s *Settings) *string { return &s.LongTokenExpiresIn }),
		str("downloadtoken_expires_in", "15m", func(s *Settings) *string { return &s.DownloadTokenExpiresIn }),
		str("personalnoderedtoken_expires_in", "365d", func(s *Settings) *string { return &s.PersonalNoderedTokenExpireIn }),

		str("nodered_image", "cloudhack/openflownodered:edge", func(s *Settings) *string { return &s.NoderedImage }),
		str("saml_federation_metadata", "", func(s *Settings) *string { return &s.SAMLFederationMetadata }),
		str("api_ws_url", "ws://localhost:3000", func(s *Settings) *string { return &s.APIWebSocketURL }),
		str("namespace", "", func(s *Settings) *string { return &s.Namespace }),
		str("nodered_domain_schema", "", func(s *Settings) *string { return &s.NoderedDomainSchema }),
		integer("nodered_initial_liveness_delay", "60", func(s *Settings) *int { return &s.NoderedInitialLivenessDelay }),
	}
}

// sensitive marks connection strings that may embed credentials.
func sensitive(f field) field {
	f.Secret = true
	return f
}
