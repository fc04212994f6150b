package mockapi

import "github.com/appsim/appsim/pkg/directory"

// seedProfiles returns the fixed three-record collection every fresh
// user service starts from.
func seedProfiles() []directory.UserProfile {
	return []directory.UserProfile{
		{
			ID:       1,
			Name:     "John Doe",
			Username: "john.doe",
			Email:    "john.doe@example.com",
			Phone:    "+1-555-0123",
			Website:  "johndoe.com",
			Address: directory.Address{
				Street:  "123 Main St",
				Suite:   "Apt 1",
				City:    "Anytown",
				Zipcode: "12345",
				Geo:     directory.Geo{Lat: "40.7128", Lng: "-74.0060"},
			},
			Company: directory.Company{
				Name:        "Acme Corp",
				CatchPhrase: "Innovative solutions",
				BS:          "enterprise software",
			},
		},
		{
			ID:       2,
			Name:     "Jane Smith",
			Username: "jane.smith",
			Email:    "jane.smith@example.com",
			Phone:    "+1-555-0456",
			Website:  "janesmith.com",
			Address: directory.Address{
				Street:  "456 Oak Ave",
				Suite:   "Suite 200",
				City:    "Somewhere",
				Zipcode: "67890",
				Geo:     directory.Geo{Lat: "34.0522", Lng: "-118.2437"},
			},
			Company: directory.Company{
				Name:        "Tech Solutions Inc",
				CatchPhrase: "Building the future",
				BS:          "technology consulting",
			},
		},
		{
			ID:       3,
			Name:     "Bob Johnson",
			Username: "bob.johnson",
			Email:    "bob.johnson@example.com",
			Phone:    "+1-555-0789",
			Website:  "bobjohnson.net",
			Address: directory.Address{
				Street:  "789 Pine Rd",
				Suite:   "",
				City:    "Elsewhere",
				Zipcode: "54321",
				Geo:     directory.Geo{Lat: "41.8781", Lng: "-87.6298"},
			},
			Company: directory.Company{
				Name:        "Johnson & Associates",
				CatchPhrase: "Quality first",
				BS:          "business consulting",
			},
		},
	}
}
