package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobace/internal/config"
	"jobace/internal/db"
	"jobace/internal/model"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
	Skills   []string
}

type seedJob struct {
	Title       string
	Description string
	Category    string
	Budget      string
	Location    string
	Skills      []string
	ClientEmail string
}

var seedUsers = []seedUser{
	{Name: "Admin", Email: "admin@jobace.local", Password: "admin1234", Role: model.RoleAdmin},
	{Name: "Alice Client", Email: "alice@jobace.local", Password: "client1234", Role: model.RoleClient},
	{Name: "Bob Builder", Email: "bob@jobace.local", Password: "worker1234", Role: model.RoleWorker, Skills: []string{"plumbing", "carpentry"}},
	{Name: "Carol Coder", Email: "carol@jobace.local", Password: "worker1234", Role: model.RoleWorker, Skills: []string{"go", "mysql", "redis"}},
}

var seedJobs = []seedJob{
	{
		Title:       "Fix kitchen sink",
		Description: "Leaking pipe under the kitchen sink needs replacement.",
		Category:    "home-repair",
		Budget:      "150.00",
		Location:    "Cairo",
		Skills:      []string{"plumbing"},
		ClientEmail: "alice@jobace.local",
	},
	{
		Title:       "Build landing page",
		Description: "Single page marketing site with a contact form.",
		Category:    "web-development",
		Budget:      "800.00",
		Location:    "Remote",
		Skills:      []string{"html", "css", "go"},
		ClientEmail: "alice@jobace.local",
	},
	{
		Title:       "Assemble garden shed",
		Description: "Flat-pack shed, tools provided, one afternoon of work.",
		Category:    "home-repair",
		Budget:      "120.00",
		Location:    "Giza",
		Skills:      []string{"carpentry"},
		ClientEmail: "alice@jobace.local",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Printf("database close: %v", err)
		}
	}()
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Job{}, &model.Application{}, &model.Invoice{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	usersByEmail := make(map[string]*model.User, len(seedUsers))
	for _, su := range seedUsers {
		user, err := upsertUser(gormDB, su)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.Email, err)
		}
		usersByEmail[su.Email] = user
	}
	log.Printf("Seeded %d users", len(seedUsers))

	created := 0
	for _, sj := range seedJobs {
		client, ok := usersByEmail[sj.ClientEmail]
		if !ok {
			log.Fatalf("Seed job %q references unknown client %s", sj.Title, sj.ClientEmail)
		}
		ok, err := upsertJob(gormDB, sj, client)
		if err != nil {
			log.Fatalf("Failed to seed job %q: %v", sj.Title, err)
		}
		if ok {
			created++
		}
	}
	log.Printf("Seeded %d jobs (%d already present)", created, len(seedJobs)-created)

	log.Println("Seed completed")
}

// upsertUser creates the user unless one with the same email already exists.
func upsertUser(gormDB *gorm.DB, su seedUser) (*model.User, error) {
	var existing model.User
	err := gormDB.Where("email = ?", su.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Name:         su.Name,
		Email:        su.Email,
		PasswordHash: string(hash),
		Role:         su.Role,
	}
	if len(su.Skills) > 0 {
		raw, err := json.Marshal(su.Skills)
		if err != nil {
			return nil, err
		}
		user.Skills = datatypes.JSON(raw)
	}
	if err := gormDB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// upsertJob creates the job unless the client already has one with the same
// title. Returns true when a row was inserted.
func upsertJob(gormDB *gorm.DB, sj seedJob, client *model.User) (bool, error) {
	var count int64
	if err := gormDB.Model(&model.Job{}).
		Where("client_id = ? AND title = ?", client.ID, sj.Title).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	budget, err := decimal.NewFromString(sj.Budget)
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(sj.Skills)
	if err != nil {
		return false, err
	}

	job := model.Job{
		Title:       sj.Title,
		Description: sj.Description,
		Category:    sj.Category,
		Budget:      budget,
		Location:    sj.Location,
		Skills:      datatypes.JSON(raw),
		Deadline:    time.Now().AddDate(0, 1, 0),
		Status:      model.JobStatusOpen,
		ClientID:    client.ID,
	}
	if err := gormDB.Create(&job).Error; err != nil {
		return false, err
	}
	return true, nil
}
