package types

// Entity kind names. A kind name is the prefix of every storage key.
const (
	KindBaseModel = "BaseModel"
	KindUser      = "User"
	KindState     = "State"
	KindCity      = "City"
	KindAmenity   = "Amenity"
	KindPlace     = "Place"
	KindReview    = "Review"
)

// StandardKindNames lists all kind names in registration order.
var StandardKindNames = []string{
	KindBaseModel,
	KindUser,
	KindState,
	KindCity,
	KindAmenity,
	KindPlace,
	KindReview,
}
