package generator

import "github.com/atreyee91/netflix-streaming-pipeline/pkg/models"

// ContentItem is one static catalog entry. Durations are in seconds.
type ContentItem struct {
	ID              string
	Title           string
	Type            string
	DurationSeconds float64
}

// ContentCatalog is the fixed reference catalog events are drawn from.
var ContentCatalog = []ContentItem{
	{ID: "NF001", Title: "Stranger Things S4", Type: "tv_episode", DurationSeconds: 4500},
	{ID: "NF002", Title: "Wednesday S1", Type: "tv_episode", DurationSeconds: 2700},
	{ID: "NF003", Title: "Glass Onion", Type: "movie", DurationSeconds: 8400},
	{ID: "NF004", Title: "All Quiet on the Western Front", Type: "movie", DurationSeconds: 8880},
	{ID: "NF005", Title: "The Crown S5", Type: "tv_episode", DurationSeconds: 3600},
	{ID: "NF006", Title: "Dahmer", Type: "tv_episode", DurationSeconds: 3000},
	{ID: "NF007", Title: "Our Planet II", Type: "documentary", DurationSeconds: 3000},
	{ID: "NF008", Title: "Squid Game S1", Type: "tv_episode", DurationSeconds: 3300},
	{ID: "NF009", Title: "The Witcher S3", Type: "tv_episode", DurationSeconds: 3600},
	{ID: "NF010", Title: "Heart of Stone", Type: "movie", DurationSeconds: 7500},
	{ID: "NF011", Title: "Dave Chappelle: The Closer", Type: "special", DurationSeconds: 4200},
	{ID: "NF012", Title: "Extraction 2", Type: "movie", DurationSeconds: 7200},
	{ID: "NF013", Title: "Black Mirror S6", Type: "tv_episode", DurationSeconds: 4200},
	{ID: "NF014", Title: "The Diplomat S1", Type: "tv_episode", DurationSeconds: 2700},
	{ID: "NF015", Title: "You S4", Type: "tv_episode", DurationSeconds: 3000},
	{ID: "NF016", Title: "Behind the Curve", Type: "documentary", DurationSeconds: 5700},
	{ID: "NF017", Title: "Rebel Moon", Type: "movie", DurationSeconds: 8100},
	{ID: "NF018", Title: "One Piece S1", Type: "tv_episode", DurationSeconds: 3300},
	{ID: "NF019", Title: "The Night Agent S1", Type: "tv_episode", DurationSeconds: 2700},
	{ID: "NF020", Title: "Luther: The Fallen Sun", Type: "movie", DurationSeconds: 7800},
}

// Locations is the fixed table users draw a sticky location from.
var Locations = []models.Location{
	{Country: "US", Region: "California", City: "Los Angeles", Lat: 34.05, Lon: -118.24},
	{Country: "US", Region: "New York", City: "New York", Lat: 40.71, Lon: -74.00},
	{Country: "US", Region: "Texas", City: "Houston", Lat: 29.76, Lon: -95.36},
	{Country: "US", Region: "Illinois", City: "Chicago", Lat: 41.88, Lon: -87.63},
	{Country: "UK", Region: "England", City: "London", Lat: 51.51, Lon: -0.13},
	{Country: "DE", Region: "Bavaria", City: "Munich", Lat: 48.14, Lon: 11.58},
	{Country: "JP", Region: "Kanto", City: "Tokyo", Lat: 35.68, Lon: 139.69},
	{Country: "BR", Region: "Sao Paulo", City: "Sao Paulo", Lat: -23.55, Lon: -46.63},
	{Country: "IN", Region: "Maharashtra", City: "Mumbai", Lat: 19.08, Lon: 72.88},
	{Country: "AU", Region: "NSW", City: "Sydney", Lat: -33.87, Lon: 151.21},
	{Country: "CA", Region: "Ontario", City: "Toronto", Lat: 43.65, Lon: -79.38},
	{Country: "FR", Region: "Ile-de-France", City: "Paris", Lat: 48.86, Lon: 2.35},
	{Country: "KR", Region: "Seoul", City: "Seoul", Lat: 37.57, Lon: 126.98},
	{Country: "MX", Region: "CDMX", City: "Mexico City", Lat: 19.43, Lon: -99.13},
	{Country: "ES", Region: "Madrid", City: "Madrid", Lat: 40.42, Lon: -3.70},
}

// QualityOption is one resolution/bitrate pair available to a tier.
type QualityOption struct {
	Resolution  string
	BitrateKbps int
}

// QualityLadder maps each subscription tier to the quality tuples its users
// can stream at. Higher tiers include HDR variants.
var QualityLadder = map[models.SubscriptionTier][]QualityOption{
	models.TierBasic: {
		{Resolution: "480p", BitrateKbps: 2500},
	},
	models.TierStandard: {
		{Resolution: "720p", BitrateKbps: 5000},
		{Resolution: "1080p", BitrateKbps: 8000},
	},
	models.TierPremium: {
		{Resolution: "1080p", BitrateKbps: 8000},
		{Resolution: "4K", BitrateKbps: 16000},
		{Resolution: "4K_HDR", BitrateKbps: 20000},
	},
}
