package directory

// UserProfile is a directory entry in the demo user list. It is a
// third-party record, distinct from an auth session. IDs are numeric
// and unique within a collection; new ids are assigned as
// max(existing)+1.
type UserProfile struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Address is a profile's nested postal address.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Geo holds coordinates as strings, matching the wire format.
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Company is a profile's nested employer record.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}
