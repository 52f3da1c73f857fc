package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/radiolytics/nrf24decode/internal/capture"
	cfgpkg "github.com/radiolytics/nrf24decode/internal/config"
	"github.com/radiolytics/nrf24decode/internal/logging"
	"github.com/radiolytics/nrf24decode/internal/metrics"
	"github.com/radiolytics/nrf24decode/internal/protocol/nrf24"
	"github.com/radiolytics/nrf24decode/internal/report"
)

func main() {
	var (
		cfgFile = pflag.String("config", "", "config file path")
		_       = pflag.String("input", "", "SPI capture file to decode")
		_       = pflag.String("output", "", "report destination (default stdout)")
		_       = pflag.String("uesb", "", "write micro-esb init code to this file")
		_       = pflag.String("format", "text", "report format: text|yaml")
		_       = pflag.String("log-level", "info", "log level")
		_       = pflag.Bool("metrics", false, "serve Prometheus metrics during the replay")
		_       = pflag.String("metrics-addr", ":9109", "metrics listen address")
	)
	pflag.Parse()

	cfg, err := cfgpkg.LoadWithFlags(*cfgFile, pflag.CommandLine)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))

	if cfg.Decode.Input == "" {
		log.Fatal("no input capture specified")
	}

	var dm *metrics.DecoderMetrics
	if cfg.Metrics.Enable {
		reg := metrics.NewRegistry()
		dm = metrics.NewDecoderMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	txs, err := capture.Open(cfg.Decode.Input)
	if err != nil {
		log.Fatal("read capture", zap.Error(err))
	}
	log.Info("capture loaded",
		zap.String("input", cfg.Decode.Input), zap.Int("transactions", len(txs)))

	var dec *nrf24.Decoder
	if dm != nil {
		dec = nrf24.NewDecoder(log, dm)
	} else {
		dec = nrf24.NewDecoder(log, nil)
	}
	if err := dec.Run(txs); err != nil {
		log.Fatal("replay aborted: capture does not describe this protocol", zap.Error(err))
	}

	st := dec.State()
	summary := report.Build(st, filepath.Base(cfg.Decode.Input), runID, time.Now())

	out := os.Stdout
	if cfg.Decode.Output != "" {
		f, err := os.Create(cfg.Decode.Output)
		if err != nil {
			log.Fatal("create output", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	switch cfg.Decode.Format {
	case "yaml":
		err = report.WriteYAML(out, summary)
	default:
		err = report.WriteText(out, summary, st.Messages)
	}
	if err != nil {
		log.Fatal("write report", zap.Error(err))
	}

	if cfg.Decode.UESB != "" {
		if err := os.WriteFile(cfg.Decode.UESB, []byte(st.UESBConfig()+"\n"), 0o644); err != nil {
			log.Fatal("write uesb config", zap.Error(err))
		}
	}

	log.Info("replay complete",
		zap.Int("sent", st.TxCount()),
		zap.Int("received", st.RxCount()),
		zap.Bool("clone", st.BekenDetected()))
}
