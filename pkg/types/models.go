package types

// User is a person who owns places and writes reviews.
type User struct {
	BaseModel `mapstructure:",squash"`
	Email     string `json:"email" mapstructure:"email"`
	Password  string `json:"password" mapstructure:"password"`
	FirstName string `json:"first_name" mapstructure:"first_name"`
	LastName  string `json:"last_name" mapstructure:"last_name"`
}

// Kind implements Entity.
func (u *User) Kind() string { return KindUser }

// State is a named region that groups cities.
type State struct {
	BaseModel `mapstructure:",squash"`
	Name      string `json:"name" mapstructure:"name"`
}

// Kind implements Entity.
func (s *State) Kind() string { return KindState }

// City belongs to a State through StateID.
type City struct {
	BaseModel `mapstructure:",squash"`
	StateID   string `json:"state_id" mapstructure:"state_id"`
	Name      string `json:"name" mapstructure:"name"`
}

// Kind implements Entity.
func (c *City) Kind() string { return KindCity }

// Amenity is a named facility a place can offer.
type Amenity struct {
	BaseModel `mapstructure:",squash"`
	Name      string `json:"name" mapstructure:"name"`
}

// Kind implements Entity.
func (a *Amenity) Kind() string { return KindAmenity }

// Place is a rentable lodging. CityID, UserID and AmenityIDs are plain
// references; nothing checks that they resolve.
type Place struct {
	BaseModel       `mapstructure:",squash"`
	CityID          string   `json:"city_id" mapstructure:"city_id"`
	UserID          string   `json:"user_id" mapstructure:"user_id"`
	Name            string   `json:"name" mapstructure:"name"`
	Description     string   `json:"description" mapstructure:"description"`
	NumberRooms     int      `json:"number_rooms" mapstructure:"number_rooms"`
	NumberBathrooms int      `json:"number_bathrooms" mapstructure:"number_bathrooms"`
	MaxGuest        int      `json:"max_guest" mapstructure:"max_guest"`
	PriceByNight    int      `json:"price_by_night" mapstructure:"price_by_night"`
	Latitude        float64  `json:"latitude" mapstructure:"latitude"`
	Longitude       float64  `json:"longitude" mapstructure:"longitude"`
	AmenityIDs      []string `json:"amenity_ids" mapstructure:"amenity_ids"`
}

// Kind implements Entity.
func (p *Place) Kind() string { return KindPlace }

// Review is a user's text about a place.
type Review struct {
	BaseModel `mapstructure:",squash"`
	PlaceID   string `json:"place_id" mapstructure:"place_id"`
	UserID    string `json:"user_id" mapstructure:"user_id"`
	Text      string `json:"text" mapstructure:"text"`
}

// Kind implements Entity.
func (r *Review) Kind() string { return KindReview }

// Constructors return entities with every field at its default. They do not
// assign identity; see Store.Create.

// NewBaseModel returns an empty BaseModel.
func NewBaseModel() Entity { return &BaseModel{} }

// NewUser returns an empty User.
func NewUser() Entity { return &User{} }

// NewState returns an empty State.
func NewState() Entity { return &State{} }

// NewCity returns an empty City.
func NewCity() Entity { return &City{} }

// NewAmenity returns an empty Amenity.
func NewAmenity() Entity { return &Amenity{} }

// NewPlace returns an empty Place with an empty, non-nil amenity list.
func NewPlace() Entity { return &Place{AmenityIDs: []string{}} }

// NewReview returns an empty Review.
func NewReview() Entity { return &Review{} }
