package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	HTTPPort  string `envconfig:"HTTP_PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"consegne.db"`
	BodyLimit string `envconfig:"BODY_LIMIT" default:"16K"`

	// VAPID signing material; push dispatch is disabled when keys are missing
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDSubscriber string `envconfig:"VAPID_SUBSCRIBER" default:"mailto:admin@consegne.app"`
	PushTTL         int    `envconfig:"PUSH_TTL" default:"30"`
	PushPerSec      int    `envconfig:"PUSH_PER_SEC" default:"50"`

	MsgMaxLen int `envconfig:"MSG_MAX_LEN" default:"2000"`

	// bootstrap admin, created on first start when the user bucket is empty
	AdminMail     string `envconfig:"ADMIN_MAIL" default:"admin@consegne.app"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
