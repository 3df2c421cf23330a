// mapping.go — преобразование заявки в хранимые документы raw_data и images.
package service

import "github.com/fstr/pereval-api/internal/domain/model"

// NewRawData строит документ raw_data для новой записи.
// Статус всегда new, пропущенные опциональные поля — пустые строки.
func NewRawData(sub *model.Submission) *model.RawData {
	return buildRawData(sub, model.User{
		Email: sub.User.Email,
		Phone: sub.User.Phone,
		Fam:   sub.User.Fam,
		Name:  sub.User.Name,
		Otc:   sub.User.Otc,
	})
}

// ReplacementRawData строит документ raw_data для изменения записи.
// Редактируемые поля берутся из заявки, блок user — из сохранённой записи,
// user из заявки игнорируется.
func ReplacementRawData(sub *model.Submission, stored model.User) *model.RawData {
	return buildRawData(sub, stored)
}

func buildRawData(sub *model.Submission, user model.User) *model.RawData {
	return &model.RawData{
		BeautyTitle: sub.BeautyTitle,
		Title:       sub.Title,
		OtherTitles: sub.OtherTitles,
		Connect:     sub.Connect,
		AddTime:     sub.AddTime,
		User:        user,
		Coords:      sub.Coords,
		Level:       sub.Level,
		Status:      model.StatusNew,
	}
}

// NewImageList строит документ images: только заголовки,
// идентификаторы 1..N по порядку. Данные изображений не сохраняются.
func NewImageList(images []model.SubmitImage) *model.ImageList {
	list := &model.ImageList{Images: make([]model.Image, 0, len(images))}
	for i, img := range images {
		list.Images = append(list.Images, model.Image{ID: i + 1, Title: img.Title})
	}
	return list
}
