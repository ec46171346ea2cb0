package domain

// Category defaults applied when none are given.
const (
	DefaultCategoryColor = "#8B5CF6"
	DefaultCategoryIcon  = "Folder"
)

// Category groups tasks. Categories are listed in Position order.
type Category struct {
	ID       string
	Name     string
	Color    string
	Icon     string
	Position int

	// TaskCount is derived when listing and never stored.
	TaskCount int
}

// NewCategory creates a category with the default color and icon.
func NewCategory(name string) Category {
	return Category{
		Name:  name,
		Color: DefaultCategoryColor,
		Icon:  DefaultCategoryIcon,
	}
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name     *string
	Color    *string
	Icon     *string
	Position *int
}

// Apply merges the patch into the category.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
}
