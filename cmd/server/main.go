package main

import (
	"flag"
	"fmt"
	"net/http"

	"smskhata/internal/handler"
	"smskhata/internal/importer"
	"smskhata/internal/logger"
	"smskhata/internal/store"
)

func main() {
	port := flag.Int("port", 8005, "HTTP server port")
	dbPath := flag.String("db", "smskhata.db", "SQLite database path")
	messagesPath := flag.String("messages", "messages.json", "SMS dump file (JSON array)")
	flag.Parse()

	log := logger.New()

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("opening store")
	}
	defer st.Close()

	src := importer.NewFileSource(*messagesPath)
	im := importer.New(st, src, log)

	h := handler.New(st, im, log)
	mux := http.NewServeMux()
	h.Routes(mux)

	addr := fmt.Sprintf(":%d", *port)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
