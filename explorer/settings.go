package explorer

// Settings holds presentation-only configuration: the configurable bech32
// human-readable prefix addresses are rendered with by the presentation
// layer (§6.3/§6.4). Unlike BlockchainConfig, Settings never comes from the
// genesis block — it is supplied at context-construction time and may
// differ per deployment without affecting indexing semantics.
type Settings struct {
	AddressBech32Prefix string
}

// DefaultSettings mirrors the original explorer's hardcoded "ca" prefix,
// now as a configurable default rather than a literal.
func DefaultSettings() Settings {
	return Settings{AddressBech32Prefix: "ca"}
}

// Context bundles everything the presentation projection needs: a query
// engine to answer lookups and the settings to render results with.
type Context struct {
	Queries  *QueryEngine
	Settings Settings
}
