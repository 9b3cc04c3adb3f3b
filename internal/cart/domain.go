package cart

import "time"

// Line is one cart entry. Book fields are copied at add time; Price is
// snapshotted in the cart's selected currency and only changes on a
// currency switch. Stock is the bound used to clamp quantity.
type Line struct {
	BookID   string  `bson:"book_id" json:"book_id"`
	Title    string  `bson:"title" json:"title"`
	Author   string  `bson:"author" json:"author"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Stock    int     `bson:"stock" json:"stock"`
	ImageURL string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type Cart struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Currency  string    `bson:"currency" json:"currency"`
	Lines     []Line    `bson:"lines" json:"lines"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy. Lines get their own backing array, so the
// copy can be mutated without affecting other holders of the original.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = append([]Line(nil), c.Lines...)
	return &cp
}

// Find returns the index of the line for bookID, or -1.
func (c *Cart) Find(bookID string) int {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
