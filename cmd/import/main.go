package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"smskhata/internal/importer"
	"smskhata/internal/logger"
	"smskhata/internal/store"
)

func main() {
	dbPath := flag.String("db", "smskhata.db", "SQLite database path")
	messagesPath := flag.String("messages", "", "SMS dump file (JSON array) (required)")
	sinceStr := flag.String("since", "", "Only import messages received on or after this date (YYYY-MM-DD)")
	max := flag.Int("max", 0, "Maximum number of messages to read (0 = no limit)")
	flag.Parse()

	if *messagesPath == "" {
		fmt.Println("Error: -messages is required.")
		flag.Usage()
		os.Exit(1)
	}

	log := logger.New()

	var since time.Time
	if *sinceStr != "" {
		t, err := time.Parse(time.DateOnly, *sinceStr)
		if err != nil {
			log.Fatal().Err(err).Msg("parsing -since date")
		}
		since = t
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("opening store")
	}
	defer st.Close()

	im := importer.New(st, importer.NewFileSource(*messagesPath), log)

	summary, err := im.Run(context.Background(), importer.Filter{MinDate: since, MaxCount: *max})
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encoding summary")
	}
	fmt.Println(string(out))
}
