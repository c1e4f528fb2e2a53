package conf

import (
	"encoding/json"
	"time"
)

// Bootstrap is the top-level configuration scanned from the config source.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Auth   *Auth   `json:"auth"`
	Assets *Assets `json:"assets"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Database      *Database      `json:"database"`
	Redis         *Redis         `json:"redis"`
	Kafka         *Kafka         `json:"kafka"`
	Elasticsearch *Elasticsearch `json:"elasticsearch"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Redis struct {
	Network      string    `json:"network"`
	Addr         string    `json:"addr"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
}

type Kafka struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

type Elasticsearch struct {
	Addresses []string `json:"addresses"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Index     string   `json:"index"`
}

type Auth struct {
	Secret            string    `json:"secret"`
	Expiry            *Duration `json:"expiry"`
	AdminEmail        string    `json:"admin_email"`
	AdminPasswordHash string    `json:"admin_password_hash"`
}

type Assets struct {
	Dir           string `json:"dir"`
	PublicBaseURL string `json:"public_base_url"`
}

// Duration decodes "200ms"/"1s" style strings from the config file.
type Duration struct {
	d time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.d = v
	return nil
}

func (d *Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.AsDuration().String())
}

func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.d
}
