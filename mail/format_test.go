package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/mensawerk/mensamail/menu"
)

// fixedNow pins the clock to a known date. 2026-08-24 is a Monday,
// 2026-08-29 a Saturday.
func fixedNow(date string) FormatterOption {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return WithNow(func() time.Time { return t })
}

func sampleWeek() menu.DishesByDay {
	week := menu.DishesByDay{}
	for _, day := range menu.Weekdays {
		week[day] = []menu.Dish{}
	}
	week["Montag"] = []menu.Dish{
		{Title: "Gulasch", Price: 5.50, Category: menu.CategoryMain},
		{Title: "Linsensuppe", Price: 3.50, Category: menu.CategoryMain},
		{Title: "Beilagensalat", Price: 0.80, Category: menu.CategorySide},
	}
	week["Dienstag"] = []menu.Dish{
		{Title: "Käsespätzle", Price: 4.20, Category: menu.CategoryMain},
	}
	return week
}

func TestBodyTodayAndTomorrow(t *testing.T) {
	f := NewFormatter(fixedNow("2026-08-24"))

	body := f.Body(sampleWeek())

	if !strings.Contains(body, "Heute (Montag)") {
		t.Error("missing today section")
	}
	if !strings.Contains(body, "Morgen (Dienstag)") {
		t.Error("missing tomorrow section")
	}
	if !strings.Contains(body, "Käsespätzle") {
		t.Error("missing tomorrow's dish")
	}
}

func TestBodySortsByPrice(t *testing.T) {
	f := NewFormatter(fixedNow("2026-08-24"))

	body := f.Body(sampleWeek())

	cheap := strings.Index(body, "Linsensuppe")
	dear := strings.Index(body, "Gulasch")
	if cheap < 0 || dear < 0 || cheap > dear {
		t.Errorf("main dishes not sorted by price (Linsensuppe at %d, Gulasch at %d)", cheap, dear)
	}
	if !strings.Contains(body, "Beilagen") {
		t.Error("missing side dish section")
	}
}

func TestBodyWeekend(t *testing.T) {
	f := NewFormatter(fixedNow("2026-08-29"))

	body := f.Body(sampleWeek())

	if !strings.Contains(body, "Schönes Wochenende") {
		t.Error("missing weekend message")
	}
	if strings.Contains(body, "Heute") {
		t.Error("weekend body must not list days")
	}
}

func TestBodySanitizesTitles(t *testing.T) {
	f := NewFormatter(fixedNow("2026-08-24"))
	week := menu.DishesByDay{}
	for _, day := range menu.Weekdays {
		week[day] = []menu.Dish{}
	}
	week["Montag"] = []menu.Dish{
		{Title: `Suppe <script>alert("x")</script>`, Price: 3.00, Category: menu.CategoryMain},
	}

	body := f.Body(week)

	if strings.Contains(body, "<script>") {
		t.Error("markup in a dish title must not survive sanitization")
	}
	if !strings.Contains(body, "Suppe") {
		t.Error("plain text of the title must survive")
	}
}

func TestSubject(t *testing.T) {
	f := NewFormatter(fixedNow("2026-08-24"))
	if got := f.Subject(); !strings.Contains(got, "24.08") {
		t.Errorf("subject = %q, want the date", got)
	}
}

func TestMessageHeaders(t *testing.T) {
	msg := string(message("bot@example.org", []string{"a@example.org", "b@example.org"}, "Menü", "<p>hi</p>"))

	if !strings.Contains(msg, "To: a@example.org, b@example.org\r\n") {
		t.Error("missing To header")
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Error("missing HTML content type")
	}
	if !strings.HasSuffix(msg, "<p>hi</p>\r\n") {
		t.Error("body must terminate the message")
	}
}
