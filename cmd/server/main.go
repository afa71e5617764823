package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/mixcampeao/api/internal/app"
	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret fraco ou padrão, configure uma chave forte em produção")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("aviso: JWT secret fraco ou padrão, troque antes de ir para produção")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("falha ao inicializar banco de dados: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("falha ao migrar banco de dados: %v", err)
	}

	if cfg.Server.Mode == "release" && cfg.Admin.Password == "admin123" {
		stdLog.Printf("aviso: senha padrão do admin em uso, pulando criação do admin inicial")
	} else if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("aviso: falha ao criar admin inicial: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "modo de execução: all (padrão), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("falha ao executar serviços: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
