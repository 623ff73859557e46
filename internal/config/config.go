package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	DatabaseURL string `env:"DATABASE_URL" envDefault:"slip-payment.db"`
	LedgerPath  string `env:"LEDGER_PATH" envDefault:"gift-orders.json"`

	Admin  Admin  `envPrefix:"ADMIN_"`
	OCR    OCR    `envPrefix:"OCR_"`
	OTP    OTP    `envPrefix:"OTP_"`
	Upload Upload `envPrefix:"UPLOAD_"`

	// Fixed price accepted by the legacy promptpay verification endpoint.
	ExpectedAmount int64 `env:"EXPECTED_AMOUNT" envDefault:"100"`
}

type Admin struct {
	BaseURL string        `env:"API_BASE" envDefault:"http://localhost:5001"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type OCR struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"http://localhost:8884"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"60s"`
	Languages string        `env:"LANGUAGES" envDefault:"tha+eng"`
}

type OTP struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://portal-otp.smsmkt.com/api"`
	APIKey     string        `env:"API_KEY"`
	SecretKey  string        `env:"SECRET_KEY"`
	ProjectKey string        `env:"PROJECT_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Upload struct {
	Dir string        `env:"DIR" envDefault:"uploads"`
	TTL time.Duration `env:"TTL" envDefault:"10m"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"4000"`
}
