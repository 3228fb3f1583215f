package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/config"
	appCoreLogger "resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/processor"
	"resume-match-go/internal/storage"
)

func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	// 端点配置错了宁可启动失败，也不要上线后打分全错
	if err := cfg.ValidateAzure(); err != nil {
		glog.Fatalf("Azure打分端点配置校验失败: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	var componentLogger *log.Logger
	if cfg.Logger.Level == "debug" {
		componentLogger = log.New(os.Stderr, "[PipelineMain] ", log.LstdFlags|log.Lshortfile)
	} else {
		componentLogger = log.New(io.Discard, "", 0)
	}

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx, parser.WithEinoLogger(componentLogger))
	if err != nil {
		glog.Fatalf("创建Eino PDF提取器失败: %v", err)
	}
	glog.Info("Eino PDF解析器初始化成功")

	predictor, err := parser.NewHTTPSectionPredictor(cfg.Classifier, parser.WithPredictorLogger(componentLogger))
	if err != nil {
		glog.Fatalf("初始化章节分类客户端失败: %v", err)
	}
	glog.Info("章节分类客户端初始化成功")

	classifier, err := parser.NewChunkClassifier(predictor,
		parser.WithClassifierThreshold(cfg.Classifier.Threshold),
		parser.WithClassifierLogger(componentLogger),
	)
	if err != nil {
		glog.Fatalf("初始化章节分类器失败: %v", err)
	}

	embedder, err := parser.NewAzureEmbedder(cfg.Azure, parser.WithAzureLogger(componentLogger))
	if err != nil {
		glog.Fatalf("初始化Azure向量客户端失败: %v", err)
	}
	glog.Info("Azure向量客户端初始化成功")

	pipelineOpts := []processor.PipelineOption{
		processor.WithPipelineLogger(log.New(appCoreLogger.Logger, "[PipelineMain] ", log.LstdFlags|log.Lshortfile)),
		processor.WithBulkConcurrency(cfg.Match.BulkConcurrency),
		processor.WithBulkFailFast(cfg.Match.BulkFailFast),
		processor.WithDefaultMinScore(cfg.Match.DefaultMinScore),
	}
	if storageManager.Redis != nil {
		pipelineOpts = append(pipelineOpts, processor.WithVectorCache(storageManager.Redis))
	}

	pipeline, err := processor.NewResumePipeline(pdfExtractor, classifier, embedder, pipelineOpts...)
	if err != nil {
		glog.Fatalf("初始化简历流水线失败: %v", err)
	}
	glog.Info("简历流水线初始化成功")

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, pipeline)
	glog.Info("ResumeHandler初始化成功")

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

func initLogger() {
	logFilePath := "logs/app.log"
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Fatalf("无法创建日志目录: %v", err)
	}
	fileWriter, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("无法打开日志文件 %s: %v", logFilePath, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	multiWriter := zerolog.MultiLevelWriter(consoleWriter, fileWriter)

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.TimeFieldFormat = "15:04:05"

	logger := zerolog.New(multiWriter).With().Timestamp().Caller().Logger()

	// 应用内全局logger和zerolog标准包装共用同一个实例
	appCoreLogger.Logger = logger
	zlog.Logger = logger

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	glog.SetLevel(glog.LevelDebug)

	log.Println("Logger initialized with Zerolog, writing to console and file:", logFilePath)
}
