package config

// Momo holds the payment-gateway credentials and endpoints. It is injected
// into the gateway client constructor; nothing reads provider credentials
// from package-level state.
type Momo struct {
	PartnerCode string `env:"MOMO_PARTNER_CODE,required"`
	AccessKey   string `env:"MOMO_ACCESS_KEY,required"`
	SecretKey   string `env:"MOMO_SECRET_KEY,required"`
	Endpoint    string `env:"MOMO_ENDPOINT"`
	RedirectURL string `env:"MOMO_REDIRECT_URL"`
	IpnURL      string `env:"MOMO_IPN_URL"`
}

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`
	Momo        Momo
}
