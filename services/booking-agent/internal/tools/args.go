package tools

// Argument structs double as the source of each tool's JSON Schema.

type InsertArgs struct {
	PhoneNumber     string  `json:"phone_number" jsonschema_description:"Should be a valid phone number of 11 digits and it can only start with 013, 015, 016, 017, 018 or 019"`
	PersonName      string  `json:"person_name" jsonschema_description:"It should be a valid name"`
	AppointmentDate string  `json:"appointment_date" jsonschema_description:"It should be a date with the format YYYY-MM-DD"`
	AppointmentTime string  `json:"appointment_time" jsonschema_description:"It will be a time with the format H:M:S"`
	Age             FlexInt `json:"age,omitempty" jsonschema_description:"It will be an integer within the range of 20-100"`
}

type SearchArgs struct {
	UserID FlexInt `json:"user_id" jsonschema_description:"It will be a positive integer number"`
}

type UpdateArgs struct {
	UserID          FlexInt `json:"user_id" jsonschema_description:"It will be a positive integer number"`
	PhoneNumber     *string `json:"phone_number,omitempty" jsonschema_description:"Should be a valid phone number of 11 digits and it can only start with 013, 015, 016, 017, 018 or 019"`
	PersonName      *string `json:"person_name,omitempty" jsonschema_description:"It should be a valid name"`
	Age             FlexInt `json:"age,omitempty" jsonschema_description:"It will be an integer within the range of 20-100"`
	AppointmentDate *string `json:"appointment_date,omitempty" jsonschema_description:"It should be a date with the format YYYY-MM-DD or DD-MM-YYYY"`
	AppointmentTime *string `json:"appointment_time,omitempty" jsonschema_description:"It will be a time with the format HH:MM or HH:MM:SS"`
}

type DeleteArgs struct {
	UserID FlexInt `json:"user_id" jsonschema_description:"It will be a positive integer number"`
}
