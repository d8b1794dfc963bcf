package config

import (
	"github.com/blues/fgs/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	ChainType     string         `mapstructure:"chain_type"`    // 链类型 (ethereum, polygon, etc.)
	ChainId       int64          `mapstructure:"chain_id"`      // 链ID
	RpcUrl        string         `mapstructure:"rpc_url"`       // RPC节点URL
	PrivateKey    string         `mapstructure:"private_key"`   // 服务自身交易的私钥
	Confirmations int            `mapstructure:"confirmations"` // 交易确认数
	Contract      ContractConfig `mapstructure:"contract"`      // 结算合约配置
}

// ContractConfig 结算合约配置
type ContractConfig struct {
	Address  string `mapstructure:"address"`   // 合约地址
	ABIPath  string `mapstructure:"abi_path"`  // ABI文件路径（为空时使用内置ABI）
	BlockNum int64  `mapstructure:"block_num"` // 合约部署区块号
}

// EngineConfig 结算引擎配置
type EngineConfig struct {
	Mode    string            `mapstructure:"mode"`    // 运行模式: local（进程内账本）, chain（链上合约）
	Admin   string            `mapstructure:"admin"`   // 管理员地址（local模式下的特权身份）
	Genesis map[string]string `mapstructure:"genesis"` // 启动时铸入的初始余额（地址→十进制金额，仅local模式）
}

// MonitorConfig 事件监控配置
type MonitorConfig struct {
	Interval  int   `mapstructure:"interval"`   // 轮询间隔（秒）
	BatchSize int64 `mapstructure:"batch_size"` // 区块批量大小
	PoolSize  int   `mapstructure:"pool_size"`  // 事件处理协程池大小
}

type SchedulerConfig struct {
	Interval    int `mapstructure:"interval"`     // 任务间隔（秒）
	GracePeriod int `mapstructure:"grace_period"` // 未确认交易的宽限期（秒）
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/fgs")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "settlement")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_type", "ethereum")
	viper.SetDefault("chain.chain_id", 1)
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("engine.mode", "local")
	viper.SetDefault("monitor.interval", 60)
	viper.SetDefault("monitor.batch_size", 500)
	viper.SetDefault("monitor.pool_size", 10)
	viper.SetDefault("scheduler.interval", 30)
	viper.SetDefault("scheduler.grace_period", 3600)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
