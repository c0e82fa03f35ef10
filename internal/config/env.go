package config

import "time"

type AuthSource string

const (
	AuthOAuth2 AuthSource = "oauth2"
	AuthJWT    AuthSource = "jwt"
)

type Auth struct {
	AuthSource AuthSource `mapstructure:"OAUTH_SOURCE" default:"oauth2"`
	JWTSecret  string     `mapstructure:"AUTH_JWT_SECRET"`
	JWTIssuer  string     `mapstructure:"AUTH_JWT_ISSUER" default:"rockin"`
}

type Database struct {
	Driver       string `mapstructure:"DATABASE_DRIVER" default:"postgres"`
	DSN          string `mapstructure:"DATABASE_DSN"`
	Host         string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port         int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name         string `mapstructure:"DATABASE_NAME" default:"rockin"`
	User         string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password     string `mapstructure:"DATABASE_PASSWORD" default:"rockin"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS" default:"5"`
}

type Redis struct {
	Enable   bool   `mapstructure:"REDIS_ENABLE" default:"false"`
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform    string `mapstructure:"PLATFORM" default:"rockin"`
	Service     string `mapstructure:"SERVICE" default:"api"`
	Port        int    `mapstructure:"WEB_PORT" default:"8080"`
	GrpcPort    int    `mapstructure:"GRPC_PORT" default:"9090"` // 0 关闭 gRPC
	Env         string `mapstructure:"ENV" default:"dev"`
	FrontendURL string `mapstructure:"FRONTEND_BASE_URL" default:"http://localhost:32234"`
}

type OAuth2 struct {
	ClientID     string   `mapstructure:"OAUTH2_CLIENT_ID"`
	ClientSecret string   `mapstructure:"OAUTH2_CLIENT_SECRET"`
	Scopes       []string `mapstructure:"OAUTH2_SCOPES" default:"[\"read\",\"write\",\"offline_access\"]"`
	TokenURL     string   `mapstructure:"OAUTH2_TOKEN_URL" default:"http://localhost:8000/api/login/oauth/access_token"`
	AuthURL      string   `mapstructure:"OAUTH2_AUTH_URL" default:"http://localhost:8000/login/oauth/authorize"`
	RedirectURL  string   `mapstructure:"OAUTH2_REDIRECT_URL" default:"http://localhost:8080/api/auth/callback"`
	UserInfoURL  string   `mapstructure:"OAUTH2_USERINFO_URL" default:"http://localhost:8000/api/get-account"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Headers        string `mapstructure:"TRACE_HEADERS" default:""`
	Insecure       bool   `mapstructure:"TRACE_INSECURE" default:"true"`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}

type SequenceScope string

const (
	// ScopeWell counts core sections per (well, core_number).
	ScopeWell SequenceScope = "well"
	// ScopeGlobal counts core sections per core_number across all wells.
	ScopeGlobal SequenceScope = "global"
)

type Sample struct {
	SequenceScope  SequenceScope `mapstructure:"SAMPLE_SEQUENCE_SCOPE" default:"well"`
	MicroCoreToken string        `mapstructure:"SAMPLE_MICRO_CORE_TOKEN" default:"MC"`
	CuttingsToken  string        `mapstructure:"SAMPLE_CUTTINGS_TOKEN" default:"CUT"`
	LockTTL        time.Duration `mapstructure:"SAMPLE_LOCK_TTL" default:"5s"`
}
