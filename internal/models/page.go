package models

import "math"

// PageRequest - параметры постраничной выдачи: номер страницы (с нуля) и её размер.
type PageRequest struct {
	Page int
	Size int
}

// Offset возвращает смещение первой записи страницы.
// При переполнении насыщается до math.MaxInt: такая страница заведомо за пределами данных.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}

	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}

	return p.Page * p.Size
}
