package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// updateFields applies a field-level partial update to the record at
// key. Only the attributes present in fields are touched. The update is
// conditional on the record existing; updating an absent key returns
// ErrNotFound rather than creating a phantom record.
func (s *Store) updateFields(ctx context.Context, key map[string]types.AttributeValue, fields map[string]types.AttributeValue) error {
	if len(fields) == 0 {
		return nil
	}

	var setClauses []string
	exprNames := map[string]string{"#pk": "PK"}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	for name, value := range fields {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = name
		exprValues[valueKey] = value
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       key,
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
