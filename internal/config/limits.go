package config

const (
	// MaxInstrumentNameLength is the maximum length for instrument names.
	MaxInstrumentNameLength = 255

	// MaxInstrumentSummaryLength limits the short blurb shown in listings.
	MaxInstrumentSummaryLength = 1000

	// MaxInstrumentDescriptionLength limits the long-form description.
	MaxInstrumentDescriptionLength = 20000

	// MaxImageURLLength matches the common browser URL limit.
	MaxImageURLLength = 2048
)
