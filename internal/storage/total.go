package storage

import "github.com/pribylovaa/go-board/internal/models"

// ResolveTotal вычисляет общее число записей для страницы.
//
// Счётный запрос пропускается, когда итог однозначно следует из самой страницы:
//   - первая страница неполная - всего ровно got;
//   - непустая неполная страница - всего offset + got.
//
// В остальных случаях (полная страница или пустая страница за пределами данных)
// вызывается count.
func ResolveTotal(page models.PageRequest, got int, count func() (int64, error)) (int64, error) {
	offset := page.Offset()

	if page.Size > 0 && got < page.Size {
		if offset == 0 {
			return int64(got), nil
		}

		if got > 0 {
			return int64(offset + got), nil
		}
	}

	return count()
}
