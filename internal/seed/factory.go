// Package seed provides helpers to create demo data for development and
// tests. All writes go through the application services so seeded content
// obeys the same validation and tag rules as user-created content.
package seed

import (
	"fmt"
	"strings"
	"time"

	"scribe/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var tagPool = []string{
	"Go", "Databases", "Web Dev", "Testing", "DevOps", "Cloud", "Linux",
	"Security", "Performance", "Career", "Tooling", "Frontend", "Backend",
}

// Factory generates fake users and posts. The same seed yields the same data.
type Factory struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewFactory returns a Factory seeded with seed. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: time.Now()}
}

// Username returns a fresh lowercase username with a numeric suffix.
func (f *Factory) Username() string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(f.faker.FirstName()+f.faker.LastName()))
	return fmt.Sprintf("%s%d", name, f.faker.Number(100, 999))
}

// Post returns input for a post by userID with one to three tags.
func (f *Factory) Post(userID uint) service.CreatePostInput {
	in := service.CreatePostInput{
		UserID:  userID,
		Title:   strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."),
		Content: f.faker.Paragraph(f.faker.Number(1, 3), f.faker.Number(3, 6), 12, "\n\n"),
		NewTags: strings.Join(f.Tags(f.faker.Number(1, 3)), ", "),
	}
	if f.faker.Bool() {
		in.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/450", f.faker.UUID())
	}
	return in
}

// Tags picks n distinct names from the demo tag pool.
func (f *Factory) Tags(n int) []string {
	if n > len(tagPool) {
		n = len(tagPool)
	}
	picked := make([]string, 0, n)
	seen := make(map[int]struct{}, n)
	for len(picked) < n {
		i := f.faker.Number(0, len(tagPool)-1)
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		picked = append(picked, tagPool[i])
	}
	return picked
}

// CreatedAt returns a timestamp spread over the last maxDays days.
func (f *Factory) CreatedAt(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return f.now.Add(-back).UTC().Truncate(time.Second)
}
