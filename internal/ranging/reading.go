package ranging

// Reading represents a single timestamped distance sample.
type Reading struct {
	T        float64 `json:"t"`        // seconds since logging started
	Distance float64 `json:"distance"` // centimeters
}

// Source is anything that can produce distance readings over time.
// Real backends block on hardware; the mock source is synthetic.
type Source interface {
	ReadDistance() (float64, error)
	Close() error
}
