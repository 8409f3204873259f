package seeders

type userData struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      string
	TeamName  string
}

var usersData = []userData{
	{Username: "admin", Email: "admin@gearguard.local", FirstName: "Ada", LastName: "Admin", Role: "Admin"},
	{Username: "manager", Email: "manager@gearguard.local", FirstName: "Mira", LastName: "Manager", Role: "Manager"},
	{Username: "tech.electrical", Email: "tech.electrical@gearguard.local", FirstName: "Elio", LastName: "Volt", Role: "Technician", TeamName: "Electrical"},
	{Username: "tech.mechanical", Email: "tech.mechanical@gearguard.local", FirstName: "Mona", LastName: "Gears", Role: "Technician", TeamName: "Mechanical"},
	{Username: "tech.it", Email: "tech.it@gearguard.local", FirstName: "Igor", LastName: "Bits", Role: "Technician", TeamName: "IT Support"},
	{Username: "user.alice", Email: "alice@gearguard.local", FirstName: "Alice", LastName: "Nguyen", Role: "User"},
	{Username: "user.bob", Email: "bob@gearguard.local", FirstName: "Bob", LastName: "Keller", Role: "User"},
}

type teamData struct {
	Name        string
	Description string
}

var teamsData = []teamData{
	{Name: "Electrical", Description: "Electrical systems and power distribution"},
	{Name: "Mechanical", Description: "Mechanical maintenance and machining"},
	{Name: "IT Support", Description: "Workstations, servers and network gear"},
}

type equipmentData struct {
	Name          string
	Category      string
	Department    string
	Location      string
	TeamName      string
	TechUsername  string
	IntervalDays  int
	PurchaseDate  string
}

var equipmentsData = []equipmentData{
	{Name: "CNC Milling Machine", Category: "Machinery", Department: "Production", Location: "Hall A", TeamName: "Mechanical", TechUsername: "tech.mechanical", IntervalDays: 90, PurchaseDate: "2023-01-15"},
	{Name: "Industrial Air Compressor", Category: "Machinery", Department: "Production", Location: "Hall A", TeamName: "Mechanical", TechUsername: "tech.mechanical", IntervalDays: 60, PurchaseDate: "2022-06-01"},
	{Name: "Backup Diesel Generator", Category: "Power", Department: "Facilities", Location: "Basement", TeamName: "Electrical", TechUsername: "tech.electrical", IntervalDays: 30, PurchaseDate: "2021-11-20"},
	{Name: "Main Distribution Panel", Category: "Power", Department: "Facilities", Location: "Basement", TeamName: "Electrical", TechUsername: "tech.electrical", IntervalDays: 180, PurchaseDate: "2020-03-10"},
	{Name: "Rack Server R740", Category: "IT", Department: "IT", Location: "Server Room", TeamName: "IT Support", TechUsername: "tech.it", IntervalDays: 120, PurchaseDate: "2023-08-05"},
	{Name: "Conference Projector", Category: "IT", Department: "Office", Location: "Meeting Room 2", TeamName: "IT Support", TechUsername: "tech.it"},
}
