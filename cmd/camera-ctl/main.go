package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/edirooss/vision-server/pkg/fmtt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// CLI flags
	addr := flag.String("addr", "http://127.0.0.1:8080", "vision-server base URL")
	action := flag.String("action", "start", "start or stop")
	start := flag.Int("start", 0, "start of channel range")
	end := flag.Int("end", 0, "end of channel range")
	debug := flag.Bool("debug", false, "dump full error chains on failure")
	flag.Parse()

	if (*action != "start" && *action != "stop") || *start == 0 || *end == 0 || *end < *start {
		fmt.Println("Usage: ./camera-ctl -action=start|stop -start=<first_channel> -end=<last_channel>")
		os.Exit(1)
	}

	log := buildLogger()
	log = log.Named("main")

	client := &http.Client{Timeout: 15 * time.Second}
	url := *addr + "/camera/" + *action

	msg := "camera started"
	if *action == "stop" {
		msg = "camera stopped"
	}

	total := (*end - *start) + 1
	for idx, ch := 0, *start; ch <= *end; idx, ch = idx+1, ch+1 {
		iterStart := time.Now()

		status, err := post(client, url, int64(ch))
		if err != nil {
			if *debug {
				fmtt.PrintErrChainDebug(err)
			}
			log.Fatal("camera "+*action+" failed",
				zap.Int("channel", ch),
				zap.Error(err),
			)
		}

		log.Info(msg,
			zap.Int("channel", ch),
			zap.String("status", status),
			zap.Int("done", idx+1),
			zap.Int("total", total),
			zap.Duration("took", time.Since(iterStart)),
		)
	}
}

// post issues one camera control call and returns the reported status.
func post(client *http.Client, url string, channel int64) (string, error) {
	body, err := json.Marshal(map[string]int64{"channel": channel})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return "", fmt.Errorf("%s: %s", resp.Status, e.Message)
		}
		return "", fmt.Errorf("unexpected response: %s", resp.Status)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Status == "" {
		out.Status = "ok"
	}
	return out.Status, nil
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.DebugLevel)
	return zap.Must(logConfig.Build())
}
