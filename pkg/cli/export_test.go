package cli

var PrintStatus = printStatus

var GetIndexConfig = getIndexConfig

type MigrationStep = migrationStep

var MigrationSteps = migrationSteps
