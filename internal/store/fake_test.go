package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory stand-in for the DynamoDB client. It
// implements just enough of the expression grammar the store actually
// uses: conditional puts, key-prefix queries, GSI equality queries, and
// the store's SET/ADD update expressions.
type fakeClient struct {
	items map[string]map[string]types.AttributeValue

	// err, when set, is returned by every call. Used to exercise
	// failure propagation.
	err error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk := item["PK"].(*types.AttributeValueMemberS).Value
	sk := item["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func keyOf(key map[string]types.AttributeValue) string {
	pk := key["PK"].(*types.AttributeValueMemberS).Value
	sk := key["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func strAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[keyOf(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := itemKey(params.Item)
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := f.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, exists := f.items[keyOf(params.Key)]
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
		f.items[keyOf(params.Key)] = item
	}

	expr := *params.UpdateExpression

	// Split off a trailing ADD clause, if any.
	setPart := expr
	addPart := ""
	if idx := strings.Index(expr, " ADD "); idx >= 0 {
		setPart = expr[:idx]
		addPart = expr[idx+len(" ADD "):]
	}

	setPart = strings.TrimPrefix(setPart, "SET ")
	for _, clause := range strings.Split(setPart, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fake: bad SET clause %q", clause)
		}
		name := parts[0]
		if resolved, ok := params.ExpressionAttributeNames[name]; ok {
			name = resolved
		}
		item[name] = params.ExpressionAttributeValues[parts[1]]
	}

	if addPart != "" {
		parts := strings.SplitN(addPart, " ", 2)
		name := parts[0]
		delta, _ := strconv.Atoi(params.ExpressionAttributeValues[parts[1]].(*types.AttributeValueMemberN).Value)
		current := 0
		if n, ok := item[name].(*types.AttributeValueMemberN); ok {
			current, _ = strconv.Atoi(n.Value)
		}
		item[name] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
	}

	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	var out []map[string]types.AttributeValue

	if params.IndexName != nil {
		keyAttr := params.ExpressionAttributeNames["#pk"]
		want := strAttr(params.ExpressionAttributeValues[":pk"])
		for _, item := range f.items {
			if strAttr(item[keyAttr]) == want {
				out = append(out, item)
			}
		}
	} else {
		wantPK := strAttr(params.ExpressionAttributeValues[":pk"])
		prefix := strAttr(params.ExpressionAttributeValues[":prefix"])
		for _, item := range f.items {
			if strAttr(item["PK"]) == wantPK && strings.HasPrefix(strAttr(item["SK"]), prefix) {
				out = append(out, item)
			}
		}
	}

	return &dynamodb.QueryOutput{Items: out}, nil
}
