package generator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

// UserIDPrefix is the fixed prefix convention for synthetic user ids.
const UserIDPrefix = "U"

// User is one member of the synthetic population. All attributes are sampled
// once at pool construction and sticky for the user's lifetime.
type User struct {
	UserID           string
	ProfileID        string
	DeviceType       models.DeviceType
	DeviceID         string
	Location         models.Location
	SubscriptionTier models.SubscriptionTier
}

var deviceWeights = map[models.DeviceType]float64{
	models.DeviceSmartTV:        0.35,
	models.DeviceMobile:         0.28,
	models.DeviceTablet:         0.10,
	models.DeviceDesktop:        0.12,
	models.DeviceGameConsole:    0.08,
	models.DeviceStreamingStick: 0.07,
}

var tierWeights = map[models.SubscriptionTier]float64{
	models.TierBasic:    0.20,
	models.TierStandard: 0.50,
	models.TierPremium:  0.30,
}

func newDeviceSampler() (*WeightedSampler, error) {
	items := make([]string, 0, len(deviceWeights))
	weights := make([]float64, 0, len(deviceWeights))
	for _, d := range models.DeviceTypes() {
		items = append(items, string(d))
		weights = append(weights, deviceWeights[d])
	}
	return NewWeightedSampler(items, weights)
}

func newTierSampler() (*WeightedSampler, error) {
	tiers := []models.SubscriptionTier{models.TierBasic, models.TierStandard, models.TierPremium}
	items := make([]string, 0, len(tiers))
	weights := make([]float64, 0, len(tiers))
	for _, tier := range tiers {
		items = append(items, string(tier))
		weights = append(weights, tierWeights[tier])
	}
	return NewWeightedSampler(items, weights)
}

// BuildUserPool samples n sticky users. The pool is immutable after
// construction.
func BuildUserPool(n int, rng *rand.Rand) ([]User, error) {
	deviceSampler, err := newDeviceSampler()
	if err != nil {
		return nil, err
	}
	tierSampler, err := newTierSampler()
	if err != nil {
		return nil, err
	}

	users := make([]User, n)
	for i := 0; i < n; i++ {
		device, _ := models.ParseDeviceType(deviceSampler.Sample(rng))
		users[i] = User{
			UserID:           fmt.Sprintf("%s%07d", UserIDPrefix, i),
			ProfileID:        fmt.Sprintf("P%07d_%d", i, 1+rng.Intn(5)),
			DeviceType:       device,
			DeviceID:         uuid.New().String(),
			Location:         Locations[rng.Intn(len(Locations))],
			SubscriptionTier: models.SubscriptionTier(tierSampler.Sample(rng)),
		}
	}
	return users, nil
}
