package main

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"CarStore/internal/catalog"
	"CarStore/internal/upload"
	"CarStore/pkg/kit"
)

func main() {
	_ = godotenv.Load()

	service := "carstore"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	dataFile := getenv("DATA_FILE", "data/cars.json")
	uploadDir := getenv("UPLOAD_DIR", "uploads")

	store, err := newStore(log, dataFile)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}

	uploads, err := upload.NewDisk(uploadDir, "/uploads")
	if err != nil {
		log.Fatal("upload dir init failed", zap.Error(err), zap.String("dir", uploadDir))
	}

	s := &catalog.Server{
		Store:   store,
		Uploads: uploads,
		Log:     log,
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: prometheus.NewRegistry(),

		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),

		UploadsDir:        uploadDir,
		CreateLimitPerMin: getenvInt("CREATE_RATE_LIMIT", 30),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newStore(log *zap.Logger, dataFile string) (catalog.Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Info("using file store", zap.String("path", dataFile))
		return catalog.NewFileStore(dataFile), nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	log.Info("using postgres store")
	return catalog.NewPostgresStore(db), nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
