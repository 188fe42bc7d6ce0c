package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/respinosap/t2-repo/internal/logging"
	"github.com/respinosap/t2-repo/loader"
	"github.com/respinosap/t2-repo/timedataset"
)

func main() {
	out := flag.String("out", "datos_energia.csv", "output file, .csv or .xlsx")
	days := flag.Int("days", 90, "days of hourly rows to generate")
	end := flag.String("end", "", "last timestamp, YYYY-MM-DD HH:MM:SS, defaults to the current hour")
	seed := flag.Uint64("seed", 1, "noise seed")
	flag.Parse()

	log := logging.New("info", "text", os.Stderr)

	endTime := time.Now().UTC().Truncate(time.Hour)
	if *end != "" {
		ts, err := loader.ParseTime(*end)
		if err != nil {
			log.Error("invalid end", "end", *end, "error", err.Error())
			os.Exit(1)
		}
		endTime = ts
	}

	opt := timedataset.NewDefaultSimulateOptions()
	opt.Seed = *seed
	tbl, err := timedataset.Simulate(*days*24, endTime, opt)
	if err != nil {
		log.Error("unable to simulate dataset", "error", err.Error())
		os.Exit(1)
	}

	if err := loader.Save(*out, tbl); err != nil {
		log.Error("unable to save dataset", "error", err.Error())
		os.Exit(1)
	}
	log.Info("dataset written", slog.String("path", *out), slog.Int("rows", tbl.Len()))
}
