package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/masir/internal/app/models"
)

var fieldLabels = map[string]string{
	"email":       "ایمیل",
	"password":    "رمز عبور",
	"full_name":   "نام",
	"road_name":   "نام جاده",
	"road_type":   "نوع جاده",
	"coordinates": "مسیر",
	"name":        "نام مکان",
	"category":    "دسته‌بندی",
	"location":    "موقعیت",
	"userId":      "کاربر",
	"title":       "عنوان",
	"message":     "پیام",
	"page":        "شماره صفحه",
	"page_size":   "اندازه صفحه",
}

func label(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func isCoordinateElement(fe validator.FieldError) bool {
	return strings.HasPrefix(fe.Field(), "coordinates[")
}

func translate(fe validator.FieldError) string {
	name := label(fe.Field())
	kind := fe.Kind()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s نمی‌تواند خالی باشد", name)
	case "email":
		return "ایمیل وارد شده معتبر نیست"
	case "road_type":
		return "نوع جاده باید یکی از موارد زیر باشد: " + strings.Join(models.RoadTypes, ", ")
	case "poi_category":
		return "دسته‌بندی باید یکی از موارد زیر باشد: " + strings.Join(models.POICategories, ", ")
	case "lat":
		return "عرض جغرافیایی باید بین -90 تا 90 باشد"
	case "lng":
		return "طول جغرافیایی باید بین -180 تا 180 باشد"
	case "len":
		if isCoordinateElement(fe) {
			return "هر نقطه باید شامل دو مقدار (عرض و طول جغرافیایی) باشد"
		}
		return fmt.Sprintf("%s باید شامل دو مقدار (عرض و طول جغرافیایی) باشد", name)
	case "min":
		switch kind {
		case reflect.Slice:
			return fmt.Sprintf("حداقل %s نقطه برای %s لازم است", fe.Param(), name)
		case reflect.String:
			return fmt.Sprintf("%s باید حداقل %s کاراکتر باشد", name, fe.Param())
		default:
			return fmt.Sprintf("%s باید حداقل %s باشد", name, fe.Param())
		}
	case "max":
		switch kind {
		case reflect.Slice:
			return fmt.Sprintf("تعداد نقاط نباید بیشتر از %s باشد", fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s نباید بیشتر از %s کاراکتر باشد", name, fe.Param())
		default:
			return fmt.Sprintf("%s نباید بیشتر از %s باشد", name, fe.Param())
		}
	}
	return fmt.Sprintf("%s نامعتبر است", name)
}
