package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

// LoadSSM fills config with the parameters stored under prefix in SSM Parameter Store.
// A parameter named /portfolio/prod/token_secret becomes TOKEN_SECRET. Values already present
// in the environment win over SSM.
func LoadSSM(ctx context.Context, config map[string]string, prefix string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errs.NewConfigError("aws", err)
	}
	return loadParameters(ctx, ssm.NewFromConfig(awsCfg), config, prefix)
}

func loadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, config map[string]string, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return errs.NewConfigError("ssm parameters under "+prefix, err)
		}
		for _, param := range page.Parameters {
			key := parameterKey(aws.ToString(param.Name))
			if key == "" {
				continue
			}
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = aws.ToString(param.Value)
			loaded++
		}
	}

	log.Info().Str("prefix", prefix).Int("parameters", loaded).Msg("Loaded configuration from SSM")
	return nil
}

func parameterKey(name string) string {
	base := path.Base(strings.TrimRight(name, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
}
