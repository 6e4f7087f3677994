package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

// Subject is the person whose biorhythm is charted.
type Subject struct {
	Name      string
	BirthDate biorhythm.Date
}

// resolveSubject returns the subject selected by cfg.
func (g *Generator) resolveSubject(ctx context.Context, cfg ChartConfig) (Subject, error) {
	if cfg.Mode == "" || cfg.Mode == config.SourceModeManual {
		birth, err := biorhythm.ParseDate(cfg.BirthDate)
		if err != nil {
			return Subject{}, fmt.Errorf("%s: %w", config.ErrBirthDate, err)
		}
		name := strings.TrimSpace(cfg.Contact)
		if name == "" {
			name = config.FallbackSubject
		}
		return Subject{Name: name, BirthDate: birth}, nil
	}

	reader, err := g.openSource(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return Subject{}, ctx.Err()
		}
		return Subject{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	return findSubject(ctx, reader, cfg.Contact)
}

// openSource opens the vCard stream named by cfg.
func (g *Generator) openSource(ctx context.Context, cfg ChartConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// findSubject scans the address book for the wanted contact.
// With an empty name the first contact carrying a full birth date wins.
func findSubject(ctx context.Context, r io.Reader, wanted string) (Subject, error) {
	wanted = strings.TrimSpace(wanted)
	decoder := vcard.NewDecoder(r)
	cards := 0

	for {
		if err := ctx.Err(); err != nil {
			return Subject{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken card does not spoil the rest of the address book.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}
		cards++

		name := cardName(card)
		if wanted != "" && !strings.EqualFold(name, wanted) {
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		birth, err := parseBirthday(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name,
				config.LogKeyValue, bday.Value)
			continue
		}
		return Subject{Name: name, BirthDate: birth}, nil
	}

	slog.Warn(config.ErrNoBirthday,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCards, cards,
		config.LogKeyName, wanted)

	if wanted != "" {
		return Subject{}, fmt.Errorf("%s: %q", config.ErrContactNotFound, wanted)
	}
	return Subject{}, errors.New(config.ErrNoBirthday)
}

// cardName prefers FN over a name assembled from N.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return strings.TrimSpace(fn.Value)
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " "))
	}
	return ""
}

// parseBirthday reads a vCard BDAY value. Year-less forms (--MM-DD) have no
// defined day count from birth and are rejected.
func parseBirthday(value string) (biorhythm.Date, error) {
	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return biorhythm.DateOf(t), nil
		}
	}
	return biorhythm.Date{}, fmt.Errorf("%w: birthday %q", biorhythm.ErrInvalidInput, value)
}
