package constants

// Pub/Sub provider names accepted by the pubsub.provider setting.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// TokenTypeBearer is returned to clients as token_type.
const TokenTypeBearer = "bearer"
