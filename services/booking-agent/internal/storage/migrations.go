package storage

const postgresSchema = `
CREATE TABLE IF NOT EXISTS appointments (
	user_id BIGSERIAL PRIMARY KEY,
	phone_number VARCHAR(15) NOT NULL,
	person_name VARCHAR(100) NOT NULL,
	age INT CHECK (age BETWEEN 20 AND 100),
	appointment_date DATE NOT NULL,
	appointment_time TIME NOT NULL,
	appointment_end_time TIME NOT NULL
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS appointments (
	user_id INTEGER PRIMARY KEY AUTOINCREMENT,
	phone_number TEXT NOT NULL,
	person_name TEXT NOT NULL,
	age INTEGER CHECK (age BETWEEN 20 AND 100),
	appointment_date TEXT NOT NULL,
	appointment_time TEXT NOT NULL,
	appointment_end_time TEXT NOT NULL
)`
