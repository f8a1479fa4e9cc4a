package menu

// Weekdays lists the seven weekday keys in menu order. The source table only
// covers Monday through Friday; Saturday and Sunday are always present in the
// result with no dishes.
var Weekdays = []string{
	"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag",
}

// Category classifies a dish by price tier.
type Category string

const (
	CategoryMain Category = "main"
	CategorySide Category = "side"
)

// Dish is one parsed, filter-surviving menu item. Immutable once produced.
type Dish struct {
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	Category  Category `json:"category"`
	Allergens []string `json:"allergens,omitempty"`
}

// DishesByDay maps every weekday name to its ordered dishes.
type DishesByDay map[string][]Dish

// emptyWeek returns a mapping with all seven weekday keys and no dishes.
func emptyWeek() DishesByDay {
	week := make(DishesByDay, len(Weekdays))
	for _, day := range Weekdays {
		week[day] = []Dish{}
	}
	return week
}
