// Command seed creates users, churches and memberships from a YAML file.
// Existing users and churches are matched by email and name and reused.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/config"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/church-calendar-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/church-calendar-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout
//
//	users:
//	  - name: Pastor John
//	    email: john@example.org
//	    password: change-me
//	churches:
//	  - name: Grace Chapel
//	    members:
//	      - email: john@example.org
//	        role: owner
type SeedFile struct {
	Users    []SeedUser   `yaml:"users"`
	Churches []SeedChurch `yaml:"churches"`
}

type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type SeedChurch struct {
	Name    string       `yaml:"name"`
	Members []SeedMember `yaml:"members"`
}

type SeedMember struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

type seedRepos struct {
	users       repositories.UserRepository
	churches    repositories.ChurchRepository
	memberships repositories.MembershipRepository
}

func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}
	if flag.NArg() < 1 {
		log.Fatal("usage: seed FILE.yaml")
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open seed file: %v", err)
	}
	defer file.Close()
	data, err := parseSeed(file)
	if err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "."))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, time.Duration(cfg.MongoDB.ConnectTimeout)*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	repos := seedRepos{
		users:       mongorepo.NewUserRepository(db),
		churches:    mongorepo.NewChurchRepository(db),
		memberships: mongorepo.NewMembershipRepository(db),
	}
	if err := seed(ctx, data, repos, bcrypt.DefaultCost); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users and %d churches", len(data.Users), len(data.Churches))
}

func parseSeed(r io.Reader) (*SeedFile, error) {
	var data SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func seed(ctx context.Context, data *SeedFile, repos seedRepos, cost int) error {
	userIDs := make(map[string]string)
	for _, u := range data.Users {
		user, err := ensureUser(ctx, repos.users, u, cost)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		userIDs[user.Email] = user.ID
	}

	for _, c := range data.Churches {
		church, err := repos.churches.FindByName(ctx, c.Name)
		if errors.Is(err, repositories.ErrNotFound) {
			church = &models.Church{Name: c.Name}
			err = repos.churches.Create(ctx, church)
		}
		if err != nil {
			return fmt.Errorf("church %s: %w", c.Name, err)
		}

		for _, m := range c.Members {
			role := models.ParseRole(m.Role)
			if !role.IsValid() {
				return fmt.Errorf("church %s: member %s has unknown role %q", c.Name, m.Email, m.Role)
			}
			userID, ok := userIDs[strings.ToLower(strings.TrimSpace(m.Email))]
			if !ok {
				user, err := repos.users.FindByEmail(ctx, m.Email)
				if err != nil {
					return fmt.Errorf("church %s: member %s: %w", c.Name, m.Email, err)
				}
				userID = user.ID
			}
			if err := repos.memberships.SetRole(ctx, church.ID, userID, role); err != nil {
				return fmt.Errorf("church %s: member %s: %w", c.Name, m.Email, err)
			}
		}
	}
	return nil
}

func ensureUser(ctx context.Context, users repositories.UserRepository, u SeedUser, cost int) (*models.User, error) {
	existing, err := users.FindByEmail(ctx, u.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if u.Password == "" {
		return nil, errors.New("password is required for new users")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: u.Name, Email: u.Email, Password: string(hash)}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
