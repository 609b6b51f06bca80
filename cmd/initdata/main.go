// Command initdata prints Mini App init data signed with BOT_TOKEN so a local
// client can talk to the API without Telegram.
//
//	initdata user='{"id":279058397,"first_name":"John"}' query_id=AAH
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"miniapp-user-backend/internal/common/config"
	"miniapp-user-backend/internal/common/logger"
	"miniapp-user-backend/internal/features/auth/verifier"
)

func main() {
	userID := flag.Int64("user-id", 0, "shortcut for user={\"id\":N,\"first_name\":\"Dev\"}")
	age := flag.Duration("age", 0, "backdate auth_date by this duration")
	check := flag.Bool("verify", false, "verify the generated payload before printing it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("initdata", cfg.Debug)

	fields, err := buildFields(flag.Args(), *userID, time.Now().Add(-*age))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	payload := verifier.Sign(fields, cfg.Telegram.BotToken)

	if *check {
		v := verifier.New(verifier.Config{MaxAge: cfg.Telegram.InitDataMaxAge}, log)
		res, err := v.Verify(payload, cfg.Telegram.BotToken)
		if err != nil {
			log.Fatal().Err(err).Msg("Generated payload does not verify")
		}
		if id, ok := res.Identity(); ok {
			log.Info().Str("user_id", id.ID).Bool("stale", res.Stale).Msg("Payload verified")
		} else {
			log.Info().Bool("stale", res.Stale).Msg("Payload verified, no user")
		}
	}

	fmt.Println(payload)
}

// buildFields turns key=value arguments into init data fields. auth_date is
// filled from authDate unless given explicitly.
func buildFields(args []string, userID int64, authDate time.Time) (map[string]string, error) {
	fields := make(map[string]string, len(args)+2)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if key == "hash" {
			return nil, fmt.Errorf("hash is computed, do not pass it")
		}
		fields[key] = value
	}

	if userID != 0 {
		if _, ok := fields["user"]; ok {
			return nil, fmt.Errorf("both -user-id and user= given")
		}
		fields["user"] = fmt.Sprintf(`{"id":%d,"first_name":"Dev"}`, userID)
	}
	if _, ok := fields["auth_date"]; !ok {
		fields["auth_date"] = strconv.FormatInt(authDate.Unix(), 10)
	}

	return fields, nil
}
