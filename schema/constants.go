package schema

// Custom string types for type safety.
type (
	// CheckID identifies a single SEO check.
	CheckID string

	// ScoreStatus is the traffic-light bucket of an aggregate score.
	ScoreStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// WeightPrecedence selects which weight source wins during resolution.
	WeightPrecedence string
)

// Built-in check ids produced by the page analyzer.
const (
	TitleLengthCheck      CheckID = "title_length"
	MetaDescriptionCheck  CheckID = "meta_description"
	H1PresenceCheck       CheckID = "h1_presence"
	HeadingStructureCheck CheckID = "heading_structure"
	ImageAltCheck         CheckID = "image_alt"
	WordCountCheck        CheckID = "word_count"
	CanonicalCheck        CheckID = "canonical"
	ViewportCheck         CheckID = "viewport"
	HTMLLangCheck         CheckID = "html_lang"
	InternalLinksCheck    CheckID = "internal_links"
	OpenGraphCheck        CheckID = "open_graph"
	StructuredDataCheck   CheckID = "structured_data"
	RobotsIndexableCheck  CheckID = "robots_indexable"
)

// All score statuses supported.
const (
	GreenStatus  ScoreStatus = "green"
	YellowStatus ScoreStatus = "yellow"
	RedStatus    ScoreStatus = "red"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All weight precedences supported.
const (
	ProviderFirst WeightPrecedence = "provider" // default
	EmbeddedFirst WeightPrecedence = "embedded"
)

// AllCheckIDs lists the built-in checks in display order.
var AllCheckIDs = []CheckID{
	TitleLengthCheck,
	MetaDescriptionCheck,
	H1PresenceCheck,
	HeadingStructureCheck,
	ImageAltCheck,
	WordCountCheck,
	CanonicalCheck,
	ViewportCheck,
	HTMLLangCheck,
	InternalLinksCheck,
	OpenGraphCheck,
	StructuredDataCheck,
	RobotsIndexableCheck,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidScoreStatuses lists all valid score statuses.
var ValidScoreStatuses = map[ScoreStatus]struct{}{
	GreenStatus:  {},
	YellowStatus: {},
	RedStatus:    {},
}

// ValidWeightPrecedences lists all valid weight precedences.
var ValidWeightPrecedences = map[WeightPrecedence]struct{}{
	ProviderFirst: {},
	EmbeddedFirst: {},
}

// Severity returns a sort key for the status (higher = worse).
func (s ScoreStatus) Severity() int {
	switch s {
	case GreenStatus:
		return 0
	case YellowStatus:
		return 1
	default:
		return 2
	}
}

// GetDefaultWeights returns the default importance of every built-in check.
func GetDefaultWeights() map[CheckID]float64 {
	return map[CheckID]float64{
		TitleLengthCheck:      2.0,
		MetaDescriptionCheck:  1.5,
		H1PresenceCheck:       1.5,
		HeadingStructureCheck: 0.5,
		ImageAltCheck:         1.0,
		WordCountCheck:        1.0,
		CanonicalCheck:        0.75,
		ViewportCheck:         1.0,
		HTMLLangCheck:         0.5,
		InternalLinksCheck:    0.75,
		OpenGraphCheck:        0.5,
		StructuredDataCheck:   0.5,
		RobotsIndexableCheck:  2.0,
	}
}
