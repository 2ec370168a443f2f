package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Data         Data         `mapstructure:",squash"`
	Pipeline     Pipeline     `mapstructure:",squash"`
	PipelineSync PipelineSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Data aponta para a árvore de arquivos de exportação. Cada categoria é um
// subdiretório do diretório raiz.
type Data struct {
	RootDir           string `mapstructure:"data_root"`
	SnapshotCachePath string `mapstructure:"snapshot_cache_path"`
	ExportDir         string `mapstructure:"export_dir"`
}

// Pipeline controla a computação das métricas. A data de referência é fixa e
// fornecida por configuração para que execuções repetidas sobre os mesmos
// dados sejam reproduzíveis; o relógio do sistema nunca é lido pelo núcleo.
type Pipeline struct {
	ReferenceDateRaw  string    `mapstructure:"reference_date"`
	ReferenceDate     time.Time `mapstructure:"-"`
	TopMerchantsCount int       `mapstructure:"top_merchants_count"`
}

type PipelineSync struct {
	CronSchedule string `mapstructure:"pipeline_sync_cron"`
	Enabled      bool   `mapstructure:"pipeline_sync_enabled"`
	RunOnStartup bool   `mapstructure:"pipeline_run_on_startup"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATA_ROOT", "data")
	viper.SetDefault("SNAPSHOT_CACHE_PATH", "metrics_cache.json")
	viper.SetDefault("EXPORT_DIR", "exports")

	viper.SetDefault("REFERENCE_DATE", "2025-08-11") // Data congelada para reprodutibilidade
	viper.SetDefault("TOP_MERCHANTS_COUNT", 3)

	// Defaults para a sincronização periódica do pipeline
	viper.SetDefault("PIPELINE_SYNC_CRON", "0 5 * * *") // Todos os dias às 5h da manhã
	viper.SetDefault("PIPELINE_SYNC_ENABLED", false)    // Habilitar atualização periódica
	viper.SetDefault("PIPELINE_RUN_ON_STARTUP", true)   // Executar o pipeline na subida do serviço

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Pipeline.ReferenceDate, err = time.ParseInLocation("2006-01-02", config.Pipeline.ReferenceDateRaw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("data de referência inválida %q: %w", config.Pipeline.ReferenceDateRaw, err)
	}

	if config.Pipeline.TopMerchantsCount <= 0 {
		config.Pipeline.TopMerchantsCount = 3
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
