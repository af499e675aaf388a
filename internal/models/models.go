package models

import "time"

const (
	UsernameMaxLength  = 150
	NewsTitleMaxLength = 250
	TitleMaxLength     = 100
	SlugMaxLength      = 100
)

// User - зарегистрированный пользователь.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DateJoined   time.Time `json:"date_joined"`
}

// News - новость. Link заполняется только у импортированных из лент новостей
// и служит ключом для исключения дублей.
type News struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
	Date  time.Time `json:"date"`
	Link  string    `json:"link,omitempty"`
}

// Comment - комментарий к новости. AuthorName заполняется при чтении.
type Comment struct {
	ID         int64     `json:"id"`
	NewsID     int64     `json:"news_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

// Note - личная заметка пользователя. Slug уникален в пределах автора.
type Note struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Slug     string `json:"slug"`
	AuthorID int64  `json:"author_id"`
}
