package seed

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set loaded from YAML.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

type FixtureUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type FixturePost struct {
	Author    string    `yaml:"author"`
	Title     string    `yaml:"title"`
	Content   string    `yaml:"content"`
	ImageURL  string    `yaml:"image_url"`
	Tags      []string  `yaml:"tags"`
	CreatedAt time.Time `yaml:"created_at"`
}

// LoadFixture decodes a fixture and checks that every post names a listed author.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	authors := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		if strings.TrimSpace(u.Username) == "" {
			return nil, fmt.Errorf("users[%d]: username is required", i)
		}
		authors[strings.TrimSpace(u.Username)] = struct{}{}
	}
	for i, p := range f.Posts {
		if _, ok := authors[strings.TrimSpace(p.Author)]; !ok {
			return nil, fmt.Errorf("posts[%d]: unknown author %q", i, p.Author)
		}
	}
	return &f, nil
}

// LoadFixtureFile is LoadFixture on the file at path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return LoadFixture(file)
}
