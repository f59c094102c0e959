package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHistoryDays   = 30
	defaultTimeframe     = "1y"
	defaultEventWindow   = 5
	defaultSupplyDepth   = 2
	defaultSentimentDays = 30

	dateLayout = "2006-01-02"
)

var (
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrMissingParameter    = errors.New("missing required parameter")
	ErrInvalidFormat       = errors.New("invalid format")
)

var tickerPattern = regexp.MustCompile(`^[A-Za-z]+$`)

// Kind identifies which analysis a parsed command requests.
type Kind string

const (
	KindPriceHistory  Kind = "price_history"
	KindCorrelation   Kind = "correlation_analysis"
	KindEventImpact   Kind = "event_impact"
	KindSupplyChain   Kind = "supply_chain_impact"
	KindNewsSentiment Kind = "news_sentiment_correlation"
)

// PriceHistoryQuery requests the trailing price series for one ticker.
type PriceHistoryQuery struct {
	Ticker string
	Days   int
}

// CorrelationQuery requests a price correlation between two tickers.
type CorrelationQuery struct {
	Symbol1   string
	Symbol2   string
	Timeframe string
}

// EventImpactQuery requests pre/post metrics around one event date.
type EventImpactQuery struct {
	Ticker    string
	EventDate time.Time
	Window    int
}

// SupplyChainQuery requests supplier price impacts for one ticker. Depth is
// accepted for contract compatibility; only direct suppliers are traversed.
type SupplyChainQuery struct {
	Ticker string
	Depth  int
}

// NewsSentimentQuery requests the sentiment/price summary for one ticker.
type NewsSentimentQuery struct {
	Ticker string
	Days   int
}

// Command is a fully parsed and validated analytics command. Exactly one of
// the variant pointers is set, matching Kind; the shape mirrors a one-of
// message payload so dispatch is a closed switch on Kind rather than string
// matching at execution time.
type Command struct {
	Raw  string
	Kind Kind

	PriceHistory  *PriceHistoryQuery
	Correlation   *CorrelationQuery
	EventImpact   *EventImpactQuery
	SupplyChain   *SupplyChainQuery
	NewsSentiment *NewsSentimentQuery
}

// ParseCommand turns a raw command line into a tagged Command. The grammar is
//
//	<verb>: key1=value1, key2=value2, ...
//
// with a case-insensitive verb. Segments without '=' are dropped silently.
// Unknown verbs and lines without a colon report ErrUnrecognizedCommand.
func ParseCommand(raw string) (*Command, error) {
	verb, body, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing ':' separator", ErrUnrecognizedCommand)
	}

	params := parseParams(body)
	cmd := &Command{Raw: raw}

	switch Kind(strings.ToLower(strings.TrimSpace(verb))) {
	case KindPriceHistory:
		ticker, err := requireTicker(params, "ticker")
		if err != nil {
			return nil, err
		}
		days, err := intParam(params, "days", defaultHistoryDays)
		if err != nil {
			return nil, err
		}
		cmd.Kind = KindPriceHistory
		cmd.PriceHistory = &PriceHistoryQuery{Ticker: ticker, Days: days}

	case KindCorrelation:
		symbol1, err := requireTicker(params, "symbol1")
		if err != nil {
			return nil, err
		}
		symbol2, err := requireTicker(params, "symbol2")
		if err != nil {
			return nil, err
		}
		timeframe := params["timeframe"]
		if timeframe == "" {
			timeframe = defaultTimeframe
		}
		cmd.Kind = KindCorrelation
		cmd.Correlation = &CorrelationQuery{Symbol1: symbol1, Symbol2: symbol2, Timeframe: timeframe}

	case KindEventImpact:
		ticker, err := requireTicker(params, "ticker")
		if err != nil {
			return nil, err
		}
		eventDate, err := requireDate(params, "event_date")
		if err != nil {
			return nil, err
		}
		window, err := intParam(params, "window", defaultEventWindow)
		if err != nil {
			return nil, err
		}
		cmd.Kind = KindEventImpact
		cmd.EventImpact = &EventImpactQuery{Ticker: ticker, EventDate: eventDate, Window: window}

	case KindSupplyChain:
		ticker, err := requireTicker(params, "ticker")
		if err != nil {
			return nil, err
		}
		depth, err := intParam(params, "depth", defaultSupplyDepth)
		if err != nil {
			return nil, err
		}
		cmd.Kind = KindSupplyChain
		cmd.SupplyChain = &SupplyChainQuery{Ticker: ticker, Depth: depth}

	case KindNewsSentiment:
		ticker, err := requireTicker(params, "ticker")
		if err != nil {
			return nil, err
		}
		days, err := intParam(params, "days", defaultSentimentDays)
		if err != nil {
			return nil, err
		}
		cmd.Kind = KindNewsSentiment
		cmd.NewsSentiment = &NewsSentimentQuery{Ticker: ticker, Days: days}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedCommand, strings.TrimSpace(verb))
	}

	return cmd, nil
}

// parseParams splits the argument body on commas, then each segment on the
// first '='. Both sides are trimmed. Segments without '=' carry no value and
// are skipped; that is accepted grammar, not an error.
func parseParams(body string) map[string]string {
	params := make(map[string]string)
	for _, segment := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// requireTicker enforces presence and the alphabetic ticker shape, returning
// the symbol normalized to upper case.
func requireTicker(params map[string]string, key string) (string, error) {
	value, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}
	if !tickerPattern.MatchString(value) {
		return "", fmt.Errorf("%w: %s %q must be alphabetic", ErrInvalidFormat, key, value)
	}
	return strings.ToUpper(value), nil
}

func requireDate(params map[string]string, key string) (time.Time, error) {
	value, ok := params[key]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q must be YYYY-MM-DD", ErrInvalidFormat, key, value)
	}
	return date, nil
}

func intParam(params map[string]string, key string, fallback int) (int, error) {
	value, ok := params[key]
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be an integer", ErrInvalidFormat, key, value)
	}
	return parsed, nil
}
