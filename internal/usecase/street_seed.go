package usecase

// defaultStreetDistricts is the Ivano-Frankivsk base mapping loaded on first
// initialization. Grown at runtime via AddMapping; entries are never removed.
var defaultStreetDistricts = map[string]string{
	// Центр
	"Августина Волошина": "Центр",
	"Арсенальна":         "Центр",
	"Вічева":             "Центр",
	"Галицька":           "Центр",
	"Гетьмана Мазепи":    "Центр",
	"Грушевського":       "Центр",
	"Данила Галицького":  "Центр",
	"Дністровська":       "Центр",
	"Європейська":        "Центр",
	"Євгена Коновальця":  "Центр",
	"Січових Стрільців":  "Центр",
	"Шевченка":           "Центр",
	"Незалежності":       "Центр",
	"Леся Курбаса":       "Центр",
	"Мазепи":             "Центр",
	"Міцкевича":          "Центр",
	"Курбаса":            "Центр",

	// Пасічна
	"Пасічна":            "Пасічна",
	"Старопасічна":       "Пасічна",
	"Пасічна Нова":       "Пасічна",
	"Пасічний провулок":  "Пасічна",
	"Трускавецька":       "Пасічна",
	"Промислова":         "Пасічна",
	"Зелена":             "Пасічна",

	// БАМ
	"Північна":             "БАМ",
	"Відінська":            "БАМ",
	"БАМ":                  "БАМ",
	"Богдана Хмельницького": "БАМ",
	"Будівельна":           "БАМ",
	"Молодіжна":            "БАМ",

	// Каскад
	"Каскадна":        "Каскад",
	"Вовчинецька":     "Каскад",
	"Довга":           "Каскад",
	"Хоткевича":       "Каскад",

	// Залізничний (Вокзал)
	"Привокзальна":    "Залізничний (Вокзал)",
	"Залізнична":      "Залізничний (Вокзал)",
	"Стефаника":       "Залізничний (Вокзал)",

	// Софіївка
	"Софійська":       "Софіївка",
	"Тролейбусна":     "Софіївка",

	// Будівельників
	"Будівельників":   "Будівельників",
	"Симоненка":       "Будівельників",

	// Набережна
	"Набережна":           "Набережна",
	"Набережна Василя Стефаника": "Набережна",

	// Опришівці
	"Опришівська":     "Опришівці",
	"Коломийська":     "Опришівці",
}
