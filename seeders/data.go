package seeders

// Справочные данные для первичного наполнения.

type phaseData struct {
	Code string
	Name string
}

var phasesData = []phaseData{
	{Code: "CUT", Name: "Резка"},
	{Code: "BEND", Name: "Гибка"},
	{Code: "WELD", Name: "Сварка"},
	{Code: "PAINT", Name: "Покраска"},
	{Code: "ASSY", Name: "Сборка"},
}

type deadTimeCodeData struct {
	Code        string
	Name        string
	Requirement string
}

var deadTimeCodesData = []deadTimeCodeData{
	{Code: "NO_MATERIAL", Name: "Нет материала", Requirement: "product-or-sheet-required"},
	{Code: "NO_TOOL", Name: "Нет инструмента", Requirement: "product-or-sheet-required"},
	{Code: "MACHINE_BREAKDOWN", Name: "Поломка станка", Requirement: "none"},
	{Code: "MANUAL_WORK", Name: "Ручная операция", Requirement: "manual-product-required"},
	{Code: "MEETING", Name: "Собрание", Requirement: "none"},
	{Code: "CLEANING", Name: "Уборка рабочего места", Requirement: "none"},
	{Code: "WAITING_CRANE", Name: "Ожидание крана", Requirement: "none"},
}

type productPhaseData struct {
	PhaseCode                 string
	SequencePosition          int
	SetupTimeSec              int64
	ProductionTimePerPieceSec int64
	RequiresFind              bool
}

type productData struct {
	Name    string
	Article string
	Phases  []productPhaseData
}

var productsData = []productData{
	{
		Name:    "Кронштейн КР-12",
		Article: "KR-12",
		Phases: []productPhaseData{
			{PhaseCode: "CUT", SequencePosition: 1, SetupTimeSec: 600, ProductionTimePerPieceSec: 45, RequiresFind: true},
			{PhaseCode: "BEND", SequencePosition: 2, SetupTimeSec: 300, ProductionTimePerPieceSec: 30},
			{PhaseCode: "PAINT", SequencePosition: 3, ProductionTimePerPieceSec: 120},
		},
	},
	{
		Name:    "Корпус щита ЩР-400",
		Article: "SHR-400",
		Phases: []productPhaseData{
			{PhaseCode: "CUT", SequencePosition: 1, SetupTimeSec: 900, ProductionTimePerPieceSec: 90, RequiresFind: true},
			{PhaseCode: "BEND", SequencePosition: 2, SetupTimeSec: 600, ProductionTimePerPieceSec: 60},
			{PhaseCode: "WELD", SequencePosition: 3, SetupTimeSec: 300, ProductionTimePerPieceSec: 240, RequiresFind: true},
			{PhaseCode: "PAINT", SequencePosition: 4, ProductionTimePerPieceSec: 180},
			{PhaseCode: "ASSY", SequencePosition: 5, ProductionTimePerPieceSec: 300},
		},
	},
}

type operatorData struct {
	Fio      string
	Login    string
	Password string
}

var operatorsData = []operatorData{
	{Fio: "Иванов Иван Иванович", Login: "ivanov", Password: "ivanov123"},
	{Fio: "Петров Петр Петрович", Login: "petrov", Password: "petrov123"},
	{Fio: "Сидорова Анна Сергеевна", Login: "sidorova", Password: "sidorova123"},
}
