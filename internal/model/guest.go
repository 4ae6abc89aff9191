package model

// Guest is a row of the `guests` table.  Guests are created once and
// reused across stays; this service never deletes them.
type Guest struct {
    ID        uint64  `json:"id"`
    FirstName string  `json:"first_name"`
    LastName  string  `json:"last_name"`
    Email     string  `json:"email"`
    Phone     string  `json:"phone"`
    IDPicture *string `json:"id_picture,omitempty"` // stored file name, nullable
}

// FullName mirrors the CONCAT(first_name, ' ', last_name) used in listings.
func (g Guest) FullName() string { return g.FirstName + " " + g.LastName }
