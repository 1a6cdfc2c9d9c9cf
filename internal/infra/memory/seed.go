package memory

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

var seedCustomers = []entity.Customer{
	{ID: "1", Name: "Acme Corporation", Email: "contact@acme.com", Phone: "+1-555-0101", Company: "Acme Corporation", CreatedAt: day(15), UpdatedAt: day(15)},
	{ID: "2", Name: "Tech Solutions Inc", Email: "info@techsolutions.com", Phone: "+1-555-0102", Company: "Tech Solutions Inc", CreatedAt: day(16), UpdatedAt: day(16)},
	{ID: "3", Name: "Global Enterprises", Email: "hello@globalent.com", Phone: "+1-555-0103", Company: "Global Enterprises", CreatedAt: day(17), UpdatedAt: day(17)},
}

var seedLeads = []entity.Lead{
	{
		ID: "1", Title: "Website Redesign Project",
		Description: "Complete website redesign and development for Acme Corporation's new product launch",
		Status:      entity.LeadStatusNew, Value: 25000, CustomerID: "1",
		CreatedAt: day(20), UpdatedAt: day(20),
	},
	{
		ID: "2", Title: "Mobile App Development",
		Description: "Custom mobile application development for iOS and Android platforms",
		Status:      entity.LeadStatusContacted, Value: 50000, CustomerID: "2",
		CreatedAt: day(21), UpdatedAt: day(22),
	},
	{
		ID: "3", Title: "Cloud Migration Services",
		Description: "Migration of existing infrastructure to cloud-based solutions",
		Status:      entity.LeadStatusConverted, Value: 75000, CustomerID: "3",
		CreatedAt: day(18), UpdatedAt: day(25),
	},
	{
		ID: "4", Title: "E-commerce Platform",
		Description: "Development of custom e-commerce platform with payment integration",
		Status:      entity.LeadStatusLost, Value: 40000, CustomerID: "1",
		CreatedAt: day(19), UpdatedAt: day(24),
	},
	{
		ID: "5", Title: "Data Analytics Dashboard",
		Description: "Custom analytics dashboard with real-time reporting capabilities",
		Status:      entity.LeadStatusNew, Value: 30000, CustomerID: "2",
		CreatedAt: day(23), UpdatedAt: day(23),
	},
}

var seedUsers = []entity.User{
	{ID: "1", Name: "John Doe", Email: "john@example.com", Role: entity.RoleAdmin, CreatedAt: day(1)},
	{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: entity.RoleUser, CreatedAt: day(2)},
}

// Seed replaces the store contents with the demo data set. hash turns DemoPassword
// into the stored password hash.
func Seed(s *Store, hash func(string) (string, error)) error {
	users, err := demoUsers(hash)
	if err != nil {
		return err
	}

	s.Restore(Snapshot{
		Customers: seedCustomers,
		Leads:     seedLeads,
		Users:     users,
	})
	return nil
}

// SeedUsers replaces the store contents with the demo accounts only. It is used
// when customers and leads live in another store.
func SeedUsers(s *Store, hash func(string) (string, error)) error {
	users, err := demoUsers(hash)
	if err != nil {
		return err
	}

	s.Restore(Snapshot{Users: users})
	return nil
}

func demoUsers(hash func(string) (string, error)) ([]UserRecord, error) {
	users := make([]UserRecord, 0, len(seedUsers))
	for _, u := range seedUsers {
		h, err := hash(DemoPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = h
		users = append(users, userRecord(u))
	}
	return users, nil
}
