package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type LeagueRegistryStackProps struct {
	awscdk.StackProps
}

// NewLeagueRegistryStack runs `league-registry serve` behind API Gateway. The
// Postgres DSN and token secret are read from the deploying shell.
func NewLeagueRegistryStack(scope constructs.Construct, id string, props *LeagueRegistryStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	lambdaFn := awslambda.NewFunction(stack, jsii.String("LeagueRegistryApi"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_PROVIDED_AL2023(),
		Handler: jsii.String("bootstrap"),
		Code:    awslambda.Code_FromAsset(jsii.String("../dist"), nil),
		Environment: &map[string]*string{
			"STORE_BACKEND":     jsii.String("postgres"),
			"POSTGRES_DSN":      jsii.String(os.Getenv("POSTGRES_DSN")),
			"JWT_SECRET":        jsii.String(os.Getenv("JWT_SECRET")),
			"LOG_JSON":          jsii.String("true"),
			"OWNER_ON_UPDATE":   jsii.String(envOr("OWNER_ON_UPDATE", "restamp")),
			"EMPTY_LIST_POLICY": jsii.String(envOr("EMPTY_LIST_POLICY", "error")),
			"AUTHORIZATION":     jsii.String(envOr("AUTHORIZATION", "allow-all")),
		},
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("LeagueRegistryGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	app := awscdk.NewApp(nil)
	NewLeagueRegistryStack(app, "LeagueRegistryStack", &LeagueRegistryStackProps{})
	app.Synth(nil)
}
