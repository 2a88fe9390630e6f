package configs

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database 数据库配置
type Database struct {
	Driver       string `mapstructure:"driver"` // mysql | postgres | sqlite
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Path         string `mapstructure:"path"` // sqlite 文件路径
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// Redis 缓存配置
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWT 令牌配置
type JWT struct {
	Secret    string `mapstructure:"secret"`
	ExpiresIn int    `mapstructure:"expires_in"` // 过期时间（小时）
}

// Log 日志配置
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Upload 上传文件配置
type Upload struct {
	Path    string `mapstructure:"path"`
	Prefix  string `mapstructure:"prefix"`
	Machine string `mapstructure:"machine"`
}

// Member 会员模块配置
type Member struct {
	InitPassword    string `mapstructure:"init_password"`
	ProfileCacheTTL int    `mapstructure:"profile_cache_ttl"` // 秒
}

// AdminUser 后台管理账号
type AdminUser struct {
	Username     string   `mapstructure:"username"`
	PasswordHash string   `mapstructure:"password_hash"` // bcrypt
	Permissions  []string `mapstructure:"permissions"`
}

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"server"`

	Database Database    `mapstructure:"database"`
	Redis    Redis       `mapstructure:"redis"`
	JWT      JWT         `mapstructure:"jwt"`
	Log      Log         `mapstructure:"log"`
	Upload   Upload      `mapstructure:"upload"`
	Member   Member      `mapstructure:"member"`
	Admins   []AdminUser `mapstructure:"admins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "9099")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/member-admin.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("jwt.expires_in", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("upload.path", "vf_admin/upload_path")
	v.SetDefault("upload.prefix", "/profile")
	v.SetDefault("upload.machine", "A")
	v.SetDefault("member.init_password", "123456")
	v.SetDefault("member.profile_cache_ttl", 3600)
}

// Load 加载配置
// 先读取 .env，再读取 yaml，环境变量（MEMBER_ADMIN_ 前缀）优先级最高
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MEMBER_ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
