package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	env, err := FromViper(defaultViper())
	require.NoError(t, err)

	assert.Equal(t, "9446", env.Port)
	assert.Equal(t, BackendPostgres, env.DataBackend)
	assert.Equal(t, "localhost", env.PostgresAddress)
	assert.Equal(t, "5433", env.PostgresPort)
	assert.Equal(t, 4, env.OperatorWorkers)
	assert.Equal(t, 5, env.OperatorMaxRetries)
	assert.Equal(t, "America/New_York", env.Timezone)
	assert.Equal(t, "0 8 * * *", env.BudgetCheckSchedule)
	assert.Equal(t, "0 9 * * *", env.GoalCheckSchedule)
	assert.Equal(t, NotifyLog, env.NotifyBackend)
	assert.Equal(t, "America/New_York", env.Location().String())
}

func TestFromViper_Overrides(t *testing.T) {
	v := defaultViper()
	v.Set("DATA_BACKEND", "MEMORY")
	v.Set("OPERATOR_WORKERS", 8)
	v.Set("TIMEZONE", "UTC")
	v.Set("NOTIFY_BACKEND", "amqp")

	env, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, env.DataBackend)
	assert.Equal(t, 8, env.OperatorWorkers)
	assert.Equal(t, "UTC", env.Location().String())
	assert.Equal(t, NotifyAMQP, env.NotifyBackend)
}

func TestFromViper_ReportsEveryProblem(t *testing.T) {
	v := defaultViper()
	v.Set("DATA_BACKEND", "sqlite")
	v.Set("OPERATOR_WORKERS", 0)
	v.Set("TIMEZONE", "Mars/Olympus_Mons")
	v.Set("BUDGET_CHECK_SCHEDULE", "every morning")
	v.Set("NOTIFY_BACKEND", "pigeon")

	env, err := FromViper(v)
	assert.Nil(t, env)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "DATA_BACKEND")
	assert.Contains(t, msg, "OPERATOR_WORKERS")
	assert.Contains(t, msg, "TIMEZONE")
	assert.Contains(t, msg, "BUDGET_CHECK_SCHEDULE")
	assert.Contains(t, msg, "NOTIFY_BACKEND")
	assert.NotContains(t, msg, "GOAL_CHECK_SCHEDULE")
}

func TestValidate_SMTPRequiresHostAndSender(t *testing.T) {
	v := defaultViper()
	v.Set("NOTIFY_BACKEND", "smtp")
	v.Set("SMTP_FROM", "")

	_, err := FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_FROM")
}

func TestProcessEnvironmentVariables_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("POSTGRES_DB", "ledger")

	env, err := ProcessEnvironmentVariables()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, env.DataBackend)
	assert.Equal(t, "ledger", env.PostgresDB)
}

func TestLoad_ExplicitValueWinsOverEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATA_BACKEND", "memory")

	v := viper.New()
	v.Set("PORT", "7000")

	env, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "7000", env.Port)
}
