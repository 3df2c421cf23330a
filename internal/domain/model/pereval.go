// Пакет model — доменные модели Pereval API.
// Submission — входной документ заявки, RawData — документ, хранимый в raw_data,
// ImageList — документ столбца images, PerevalRecord — строка таблицы pereval_added.
package model

import "time"

// Статусы перевала. Клиент может редактировать только запись в статусе StatusNew,
// остальные статусы выставляются модераторами напрямую в БД.
const (
	StatusNew      = "new"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// AddTimeLayout — формат поля add_time (YYYY-MM-DD HH:MM:SS).
const AddTimeLayout = "2006-01-02 15:04:05"

// --- Входной документ ---

// Submission — провалидированная заявка на добавление или изменение перевала.
type Submission struct {
	BeautyTitle string        `json:"beauty_title"`
	Title       string        `json:"title" validate:"required"`
	OtherTitles string        `json:"other_titles"`
	Connect     string        `json:"connect"`
	AddTime     string        `json:"add_time" validate:"required,pereval_datetime"`
	User        SubmitUser    `json:"user"`
	Coords      Coords        `json:"coords"`
	Level       Level         `json:"level"`
	Images      []SubmitImage `json:"images" validate:"dive"`
}

// SubmitUser — контактные данные автора заявки.
type SubmitUser struct {
	Fam   string `json:"fam" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Otc   string `json:"otc"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// SubmitImage — изображение из заявки. Data принимается, но не сохраняется.
type SubmitImage struct {
	Data  string `json:"data" validate:"required,base64"`
	Title string `json:"title" validate:"required"`
}

// --- Хранимые документы ---

// Coords — координаты перевала (строки, как их присылает мобильное приложение).
type Coords struct {
	Latitude  string `json:"latitude" validate:"required"`
	Longitude string `json:"longitude" validate:"required"`
	Height    string `json:"height" validate:"required"`
}

// Level — категория трудности по сезонам.
type Level struct {
	Winter string `json:"winter"`
	Summer string `json:"summer"`
	Autumn string `json:"autumn"`
	Spring string `json:"spring"`
}

// User — блок пользователя в raw_data. Не меняется после создания записи.
type User struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Fam   string `json:"fam"`
	Name  string `json:"name"`
	Otc   string `json:"otc"`
}

// RawData — документ столбца raw_data.
type RawData struct {
	BeautyTitle string `json:"beauty_title"`
	Title       string `json:"title"`
	OtherTitles string `json:"other_titles"`
	Connect     string `json:"connect"`
	AddTime     string `json:"add_time"`
	User        User   `json:"user"`
	Coords      Coords `json:"coords"`
	Level       Level  `json:"level"`
	Status      string `json:"status"`
}

// Image — ссылка на изображение в документе images.
type Image struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ImageList — документ столбца images: {"images": [...]}.
type ImageList struct {
	Images []Image `json:"images"`
}

// PerevalRecord — строка таблицы pereval_added.
type PerevalRecord struct {
	ID        int64     `json:"id"`
	RawData   RawData   `json:"raw_data"`
	Images    ImageList `json:"images"`
	DateAdded time.Time `json:"date_added"`
}

// EditState — текущее состояние записи, читаемое перед изменением.
type EditState struct {
	// Status — статус из raw_data
	Status string
	// User — сохранённый блок пользователя
	User User
}
