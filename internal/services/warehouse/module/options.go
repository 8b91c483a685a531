package module

import (
	"net"
	"net/url"
	"strconv"

	"marketingetl/internal/platform/config"
	"marketingetl/internal/platform/store"
	"marketingetl/internal/platform/validate"
)

// Options holds configuration settings for the warehouse module
type Options struct {
	Driver   string `env:"WAREHOUSE_DRIVER" validate:"oneof=postgres mysql clickhouse"`
	DBURL    string `env:"WAREHOUSE_DBURL"`
	Host     string `env:"WAREHOUSE_HOST" validate:"required_without=DBURL"`
	Port     int    `env:"WAREHOUSE_PORT" validate:"min=1,max=65535"`
	User     string `env:"WAREHOUSE_USER" validate:"required_without=DBURL"`
	Password string `env:"WAREHOUSE_PASSWORD"`
	DB       string `env:"WAREHOUSE_DB" validate:"required_without=DBURL"`
	MaxConns int    `env:"WAREHOUSE_MAX_CONNS" validate:"min=1"`
	LogSQL   bool   `env:"WAREHOUSE_LOG_SQL"`
	SlowMs   int    `env:"WAREHOUSE_SLOW_MS" validate:"min=0"`

	BatchSize int `env:"ETL_BATCH_SIZE" validate:"min=1,max=2000"`
}

// FromConfig reads and validates the warehouse settings
func FromConfig(cfg config.Conf) (Options, error) {
	wf := cfg.Prefix("WAREHOUSE_")
	driver := wf.MayString("DRIVER", string(store.DialectMySQL))

	defPort := 3306
	switch store.Dialect(driver) {
	case store.DialectPostgres:
		defPort = 5432
	case store.DialectClickHouse:
		defPort = 9000
	}

	o := Options{
		Driver:    driver,
		DBURL:     wf.MayString("DBURL", ""),
		Host:      wf.MayString("HOST", ""),
		Port:      wf.MayPort("PORT", defPort),
		User:      wf.MayString("USER", ""),
		Password:  wf.MayString("PASSWORD", ""),
		DB:        wf.MayString("DB", ""),
		MaxConns:  wf.MayInt("MAX_CONNS", 4),
		LogSQL:    wf.MayBool("LOG_SQL", false),
		SlowMs:    wf.MayInt("SLOW_MS", 500),
		BatchSize: cfg.Prefix("ETL_").MayInt("BATCH_SIZE", 100),
	}
	if err := validate.Struct(o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// StoreConfig renders the store.Config for these options
func (o Options) StoreConfig(appName, version string) store.Config {
	c := store.Config{
		AppName:     appName,
		Version:     version,
		Dialect:     store.Dialect(o.Driver),
		LogSQL:      o.LogSQL,
		SlowQueryMs: o.SlowMs,
	}
	switch c.Dialect {
	case store.DialectPostgres:
		c.PG = store.PGConfig{URL: o.url("postgres"), MaxConns: int32(o.MaxConns)}
	case store.DialectClickHouse:
		c.CH = store.CHConfig{DSN: o.url("clickhouse")}
	default:
		c.MySQL = store.MySQLConfig{
			DSN:      o.DBURL,
			Host:     o.Host,
			Port:     o.Port,
			User:     o.User,
			Password: o.Password,
			DB:       o.DB,
			MaxConns: o.MaxConns,
		}
	}
	return c
}

// url returns DBURL or one assembled from the discrete parts
func (o Options) url(scheme string) string {
	if o.DBURL != "" {
		return o.DBURL
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.DB,
	}
	return u.String()
}
